package removedups

import (
	"github.com/scan-io-git/pfast/pkg/shared/files"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// prepareRemoveDupsTargets returns the input logs and the output log.
// A single positional path is deduplicated in place, otherwise the last path is the output.
// Without any path the default defect log is deduplicated in place.
func prepareRemoveDupsTargets(options *RunOptionsRemoveDups, args []string, mode string) ([]string, string, error) {
	var inputs []string
	var output string

	switch {
	case mode == cmdutil.ModeArgs && len(args) == 1:
		inputs, output = args, args[0]
	case mode == cmdutil.ModeArgs:
		inputs, output = args[:len(args)-1], args[len(args)-1]
	case len(options.Inputs) > 0:
		inputs, output = options.Inputs, options.Output
	default:
		log, err := globals.DefectLog(AppConfig)
		if err != nil {
			return nil, "", err
		}
		return []string{log}, log, nil
	}

	expanded := make([]string, 0, len(inputs))
	for _, input := range inputs {
		path, err := files.ExpandPath(input)
		if err != nil {
			return nil, "", err
		}
		expanded = append(expanded, path)
	}
	output, err := files.ExpandPath(output)
	if err != nil {
		return nil, "", err
	}
	return expanded, output, nil
}
