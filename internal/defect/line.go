package defect

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// FieldSeparator separates the top-level fields of a flat line.
	FieldSeparator = "\t"

	// PathSeparator separates the SFA entries of the path field.
	PathSeparator = ";"

	// SFASeparator separates the sub-fields of one path entry.
	SFASeparator = ","

	// FieldCount is the number of fields of a flat line, sequence included.
	FieldCount    = 13
	sfaFieldCount = 4
)

// Values may contain any character, so the separators they carry are
// percent-encoded on the way out and restored on the way in.
var (
	fieldEscaper   = strings.NewReplacer("%", "%25", "\t", "%09", "\n", "%0A", "\r", "%0D")
	fieldUnescaper = strings.NewReplacer("%25", "%", "%09", "\t", "%0A", "\n", "%0D", "\r")

	pathEscaper = strings.NewReplacer("%", "%25", "\t", "%09", "\n", "%0A", "\r", "%0D",
		";", "%3B", ",", "%2C")

	pathUnescaper = strings.NewReplacer("%25", "%", "%09", "\t", "%0A", "\n", "%0D", "\r",
		"%3B", ";", "%2C", ",")
)

// ToDelimitedLine renders the defect as one flat line:
// sequence, sfa line, column, file name, file path, defect code, description,
// rank, module, run id, function, function line, path.
func (d Defect) ToDelimitedLine() string {
	return strconv.Itoa(d.Seq) + FieldSeparator + d.Key()
}

// FromDelimitedLine parses a line produced by ToDelimitedLine.
func FromDelimitedLine(line string) (Defect, error) {
	var d Defect

	fields := strings.Split(line, FieldSeparator)
	if len(fields) != FieldCount {
		return d, &MalformedRecordError{Reason: fmt.Sprintf("expected %d tab-separated fields, got %d", FieldCount, len(fields))}
	}

	var err error
	if d.Seq, err = parseInt("sequence", fields[0]); err != nil {
		return d, err
	}
	if d.SFA, err = parseSFA(fields[1:5], fieldUnescaper); err != nil {
		return d, err
	}
	d.DefectCode = fieldUnescaper.Replace(fields[5])
	d.Description = fieldUnescaper.Replace(fields[6])
	d.Rank = fieldUnescaper.Replace(fields[7])
	d.Module = fieldUnescaper.Replace(fields[8])
	d.RunID = fieldUnescaper.Replace(fields[9])
	d.Function = fieldUnescaper.Replace(fields[10])
	if d.FuncLine, err = parseInt("function line", fields[11]); err != nil {
		return d, err
	}
	if d.Path, err = parsePath(fields[12]); err != nil {
		return d, err
	}
	return d, nil
}

// naturalFields returns the twelve encoded fields that follow the sequence.
func (d Defect) naturalFields() []string {
	return []string{
		strconv.Itoa(d.SFA.Line),
		strconv.Itoa(d.SFA.Column),
		fieldEscaper.Replace(d.SFA.FileName),
		fieldEscaper.Replace(d.SFA.FilePath),
		fieldEscaper.Replace(d.DefectCode),
		fieldEscaper.Replace(d.Description),
		fieldEscaper.Replace(d.Rank),
		fieldEscaper.Replace(d.Module),
		fieldEscaper.Replace(d.RunID),
		fieldEscaper.Replace(d.Function),
		strconv.Itoa(d.FuncLine),
		formatPath(d.Path),
	}
}

func joinFields(fields []string) string {
	return strings.Join(fields, FieldSeparator)
}

func formatPath(path []SFA) string {
	entries := make([]string, 0, len(path))
	for _, s := range path {
		entries = append(entries, strings.Join([]string{
			strconv.Itoa(s.Line),
			strconv.Itoa(s.Column),
			pathEscaper.Replace(s.FileName),
			pathEscaper.Replace(s.FilePath),
		}, SFASeparator))
	}
	return strings.Join(entries, PathSeparator)
}

func parsePath(field string) ([]SFA, error) {
	if field == "" {
		return nil, nil
	}
	var path []SFA
	for i, entry := range strings.Split(field, PathSeparator) {
		// a trailing separator leaves an empty entry behind
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, SFASeparator)
		if len(parts) != sfaFieldCount {
			return nil, &MalformedRecordError{Reason: fmt.Sprintf("path entry %d: expected %d comma-separated sub-fields, got %d", i+1, sfaFieldCount, len(parts))}
		}
		sfa, err := parseSFA(parts, pathUnescaper)
		if err != nil {
			return nil, err
		}
		path = append(path, sfa)
	}
	return path, nil
}

func parseSFA(parts []string, unescaper *strings.Replacer) (SFA, error) {
	var s SFA
	var err error
	if s.Line, err = parseInt("line", parts[0]); err != nil {
		return s, err
	}
	if s.Column, err = parseInt("column", parts[1]); err != nil {
		return s, err
	}
	s.FileName = unescaper.Replace(parts[2])
	s.FilePath = unescaper.Replace(parts[3])
	return s, nil
}

func parseInt(name, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &MalformedRecordError{Reason: fmt.Sprintf("invalid %s %q", name, value)}
	}
	return n, nil
}
