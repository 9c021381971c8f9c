package tohtml

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/pfast/internal/config"
	"github.com/scan-io-git/pfast/internal/defect"
	"github.com/scan-io-git/pfast/internal/defectlog"
	"github.com/scan-io-git/pfast/internal/filter"
	"github.com/scan-io-git/pfast/internal/sarif"
	"github.com/scan-io-git/pfast/internal/template"
	"github.com/scan-io-git/pfast/pkg/shared/errors"
	"github.com/scan-io-git/pfast/pkg/shared/files"

	cmdutil "github.com/scan-io-git/pfast/internal/cmd"
)

// ToHTMLOptions holds the arguments of the to-html command.
type ToHTMLOptions struct {
	TemplatePath string
	Title        string
	OutputPath   string
	Input        string
}

// ReportRow is one defect of the HTML report.
type ReportRow struct {
	defect.Defect
	Level string
}

// ReportData is handed to the report template.
type ReportData struct {
	Title        string
	LogPath      string
	Time         time.Time
	FilterName   string
	Listed       int
	Total        int
	SeverityInfo map[string]int
	Defects      []ReportRow
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	globals         *cmdutil.GlobalOptions
	logger          hclog.Logger
	toHTMLOptions   ToHTMLOptions
	defaultFileName = "defects.html"

	execExampleToHTML = `  # Render the default defect log as an HTML page
  pfast to-html -o build/

  # Render a filtered log with a custom template
  pfast to-html -i defects.xml -o report.html --wspmin --template ./templates/report.html`

	ToHTMLCmd = &cobra.Command{
		Use:                   "to-html [-i LOG] -o PATH [--template FILE] [--title TEXT]",
		Short:                 "Generate an HTML view of the defect log",
		Example:               execExampleToHTML,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		RunE:                  runToHTML,
	}
)

// Init wires config and logger into the command package.
func Init(cfg *config.Config, opts *cmdutil.GlobalOptions, l hclog.Logger) {
	AppConfig = cfg
	globals = opts
	logger = l
}

func runToHTML(cmd *cobra.Command, args []string) error {
	if err := cmdutil.RequireArgs(args); err != nil {
		logger.Error("invalid command arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid arguments: %w", err), errors.ExitUsage)
	}

	input, err := globals.DefectLog(AppConfig, toHTMLOptions.Input)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	outputFile, outputFolder, err := files.DetermineFileFullPath(toHTMLOptions.OutputPath, defaultFileName)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}
	if err := files.CreateFolderIfNotExists(outputFolder); err != nil {
		return errors.NewCommandError(err, errors.ExitFileAccess)
	}

	preset, err := globals.Preset(AppConfig)
	if err != nil {
		return errors.NewCommandError(err, errors.ExitUsage)
	}

	tmpl, err := template.NewTemplate(toHTMLOptions.TemplatePath)
	if err != nil {
		logger.Error("failed to parse the report template", "error", err)
		return errors.NewCommandError(err, errors.ExitUsage)
	}

	doc, err := defectlog.LoadDocument(input)
	if err != nil {
		logger.Error("failed to load the defect log", "error", err)
		return errors.FromPipelineError(err)
	}

	data := NewReportData(toHTMLOptions.Title, input, doc, preset)
	err = files.WriteFileAtomic(outputFile, func(w io.Writer) error {
		return tmpl.Execute(w, data)
	})
	if err != nil {
		logger.Error("failed to write the HTML report", "error", err)
		return errors.FromPipelineError(&defect.FilesystemError{Op: "write", Path: outputFile, Err: err})
	}

	logger.Info("HTML report written", "path", outputFile, "defects", data.Listed)
	return nil
}

// NewReportData collects the template data for the records of doc accepted by preset.
func NewReportData(title, logPath string, doc *defect.Document, preset filter.Preset) ReportData {
	listed := filter.Apply(doc, preset)
	data := ReportData{
		Title:        title,
		LogPath:      logPath,
		Time:         time.Now().UTC(),
		Listed:       listed.Len(),
		Total:        doc.Len(),
		SeverityInfo: map[string]int{"error": 0, "warning": 0, "note": 0},
	}
	if !preset.IsAll() {
		data.FilterName = preset.Name
	}
	for _, d := range listed.Defects {
		level := sarif.LevelForRank(d.Rank)
		data.SeverityInfo[level]++
		data.Defects = append(data.Defects, ReportRow{Defect: d, Level: level})
	}
	return data
}

func init() {
	ToHTMLCmd.Flags().StringVar(&toHTMLOptions.TemplatePath, "template", "", "Report template to use instead of the built-in one")
	ToHTMLCmd.Flags().StringVar(&toHTMLOptions.Title, "title", "PREfast Defect Log", "Title of the generated page")
	ToHTMLCmd.Flags().StringVarP(&toHTMLOptions.Input, "input", "i", "", "Defect log to render (default is the current defect log)")
	ToHTMLCmd.Flags().StringVarP(&toHTMLOptions.OutputPath, "output", "o", defaultFileName, "Output file or folder")
	ToHTMLCmd.Flags().BoolP("help", "h", false, "Show help for to-html command.")
}
