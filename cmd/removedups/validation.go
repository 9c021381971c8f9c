package removedups

import (
	"fmt"
	"strings"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// validateRemoveDupsArgs validates the paths given either positionally or through flags.
func validateRemoveDupsArgs(options *RunOptionsRemoveDups, args []string, mode string) error {
	var (
		missing []string
		issues  []string
	)

	switch mode {
	case cmdutil.ModeArgs:
		if len(options.Inputs) > 0 || options.Output != "" {
			issues = append(issues, "positional paths cannot be combined with 'input' or 'output'")
		}
		for _, arg := range args {
			if strings.TrimSpace(arg) == "" {
				issues = append(issues, "paths cannot be empty")
				break
			}
		}
	case cmdutil.ModeFlags:
		if len(options.Inputs) > 0 && strings.TrimSpace(options.Output) == "" {
			missing = append(missing, "output")
		}
		if len(options.Inputs) == 0 && options.Output != "" {
			missing = append(missing, "input")
		}
		for _, input := range options.Inputs {
			if strings.TrimSpace(input) == "" {
				issues = append(issues, "'input' cannot be empty")
				break
			}
		}
	default:
		issues = append(issues, fmt.Sprintf("invalid removedups mode: %q", mode))
	}

	if len(missing) > 0 {
		issues = append([]string{fmt.Sprintf("missing required flags: %s", strings.Join(missing, ", "))}, issues...)
	}

	if len(issues) > 0 {
		return fmt.Errorf("%s", strings.Join(issues, "; "))
	}

	return nil
}
