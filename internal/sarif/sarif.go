package sarif

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/pkg/shared/files"
)

const (
	ToolName           = "PREfast"
	ToolInformationURI = "https://learn.microsoft.com/windows-hardware/drivers/devtest/prefast-for-drivers"
)

// Report wraps a SARIF report built from a defect log.
type Report struct {
	*sarif.Report
	logger hclog.Logger
}

// FromDocument converts every defect of doc into a SARIF result. Each defect code
// becomes a rule, the defect path becomes a code flow.
func FromDocument(doc *defect.Document, logger hclog.Logger) (*Report, error) {
	reportSarif, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, ToolInformationURI)
	for _, d := range doc.Defects {
		level := LevelForRank(d.Rank)
		rule := run.AddRule(d.DefectCode).
			WithDescription(d.Description).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: level,
			})

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(d.Description)).
			WithLevel(level).
			WithLocations([]*sarif.Location{newLocation(d.SFA)})
		result.Properties = map[string]interface{}{
			"Sequence": d.Seq,
			"Function": d.Function,
			"FuncLine": d.FuncLine,
			"Module":   d.Module,
			"RunID":    d.RunID,
			"Rank":     d.Rank,
		}

		if len(d.Path) > 0 {
			threadFlow := sarif.NewThreadFlow()
			for _, step := range d.Path {
				threadFlow.Locations = append(threadFlow.Locations, &sarif.ThreadFlowLocation{
					Location: newLocation(step),
				})
			}
			codeFlow := sarif.NewCodeFlow()
			codeFlow.ThreadFlows = append(codeFlow.ThreadFlows, threadFlow)
			result.CodeFlows = append(result.CodeFlows, codeFlow)
		}

		run.AddResult(result)
	}
	reportSarif.AddRun(run)

	logger.Debug("defect log converted to SARIF", "results", len(run.Results), "rules", len(run.Tool.Driver.Rules))
	return &Report{Report: reportSarif, logger: logger}, nil
}

// WriteFile stores the report as indented JSON at outputPath.
func (r Report) WriteFile(outputPath string) error {
	err := files.WriteFileAtomic(outputPath, func(w io.Writer) error {
		return r.PrettyWrite(w)
	})
	if err != nil {
		return &defect.FilesystemError{Op: "write", Path: outputPath, Err: err}
	}
	return nil
}

// CollectSeverityInfo counts results per level, plus the total.
func (r Report) CollectSeverityInfo() map[string]int {
	severityInfo := map[string]int{
		"error":   0,
		"warning": 0,
		"note":    0,
		"total":   0,
	}

	for _, run := range r.Runs {
		for _, result := range run.Results {
			if result.Level != nil {
				severityInfo[*result.Level]++
			}
			severityInfo["total"]++
		}
	}
	return severityInfo
}

// SortResultsByLevel orders results error, warning, note, keeping the log order within a level.
func (r Report) SortResultsByLevel() {
	levelOrder := map[string]int{
		"error":   0,
		"warning": 1,
		"note":    2,
		"none":    3,
	}

	for _, run := range r.Runs {
		results := run.Results
		rank := func(i int) int {
			if results[i].Level == nil {
				return len(levelOrder)
			}
			return levelOrder[*results[i].Level]
		}
		sort.SliceStable(results, func(i, j int) bool {
			return rank(i) < rank(j)
		})
	}
}

// RemoveDataflowDuplicates drops code flows whose thread flows repeat one already seen on the same result.
func (r Report) RemoveDataflowDuplicates() {
	for _, run := range r.Runs {
		for _, result := range run.Results {
			seen := map[string]bool{}
			var unique []*sarif.CodeFlow
			for _, codeFlow := range result.CodeFlows {
				var threadFlows []*sarif.ThreadFlow
				for _, threadFlow := range codeFlow.ThreadFlows {
					fingerprint := calculateThreadFlowFingerprint(threadFlow)
					if !seen[fingerprint] {
						seen[fingerprint] = true
						threadFlows = append(threadFlows, threadFlow)
					}
				}
				codeFlow.ThreadFlows = threadFlows
				if len(codeFlow.ThreadFlows) > 0 {
					unique = append(unique, codeFlow)
				}
			}
			result.CodeFlows = unique
		}
	}
}

// newLocation converts an SFA into a SARIF location. The file path and name are joined
// into a forward-slash URI.
func newLocation(s defect.SFA) *sarif.Location {
	region := sarif.NewRegion().WithStartLine(s.Line)
	if s.Column > 0 {
		region = region.WithStartColumn(s.Column)
	}
	return sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(artifactURI(s))).
			WithRegion(region),
	)
}

func artifactURI(s defect.SFA) string {
	dir := strings.ReplaceAll(s.FilePath, `\`, "/")
	if dir == "" {
		return s.FileName
	}
	return path.Join(dir, s.FileName)
}

// LevelForRank maps the engine rank, 1 being the most certain, onto a SARIF level.
func LevelForRank(rank string) string {
	switch strings.TrimSpace(rank) {
	case "1", "2":
		return "error"
	case "3":
		return "warning"
	default:
		return "note"
	}
}

// calculateThreadFlowFingerprint hashes the locations of a thread flow.
func calculateThreadFlowFingerprint(threadFlow *sarif.ThreadFlow) string {
	var fingerprint strings.Builder
	for _, location := range threadFlow.Locations {
		var uri string
		var line, column int
		if location.Location == nil {
			continue
		}
		if pl := location.Location.PhysicalLocation; pl != nil {
			if pl.ArtifactLocation != nil && pl.ArtifactLocation.URI != nil {
				uri = *pl.ArtifactLocation.URI
			}
			if pl.Region != nil && pl.Region.StartLine != nil {
				line = *pl.Region.StartLine
			}
			if pl.Region != nil && pl.Region.StartColumn != nil {
				column = *pl.Region.StartColumn
			}
		}
		fmt.Fprintf(&fingerprint, "|%s:%d:%d;", uri, line, column)
	}
	return calculateMD5Hash(fingerprint.String())
}

// calculateMD5Hash returns the hex md5 of text.
func calculateMD5Hash(text string) string {
	hash := md5.New()
	io.WriteString(hash, text)
	return hex.EncodeToString(hash.Sum(nil))
}
