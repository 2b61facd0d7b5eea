// Command pipelinectl prints pipeline statistics and candidate lists straight
// from the configured store, and can export the pipeline workbook.
//
//	pipelinectl [-config path] stats
//	pipelinectl [-config path] list [-stage STAGE] [-officer ID] [-search TEXT]
//	pipelinectl [-config path] report -o pipeline.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"

	"github.com/Honey822438/RecuirtSys/internal/application/port"
	"github.com/Honey822438/RecuirtSys/internal/application/service"
	"github.com/Honey822438/RecuirtSys/internal/config"
	"github.com/Honey822438/RecuirtSys/internal/container"
	"github.com/Honey822438/RecuirtSys/internal/domain/entity"
	domainwf "github.com/Honey822438/RecuirtSys/internal/domain/workflow"
	"github.com/Honey822438/RecuirtSys/internal/infrastructure/report"
	"github.com/Honey822438/RecuirtSys/pkg/utils"
)

// operator is the identity local commands read as
var operator = entity.Actor{ID: service.SeedAdminID, Role: entity.RoleAdmin}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Arg(0), flag.Args()[1:]); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pipelinectl [-config path] <stats|list|report> [flags]")
	flag.PrintDefaults()
}

func run(configPath, command string, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{Level: "warn", OutputPath: "stderr", Format: "console"})
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := context.Background()
	storage, err := container.ProvideStorage(ctx, cfg.ToContainerConfig(), logger)
	if err != nil {
		return err
	}
	defer storage.Close()

	svc := service.NewCandidateService(storage.Candidates, storage.History, nil,
		utils.NewZapAdapter(logger), cfg.Workflow.MaxUpdateRetries)

	switch command {
	case "stats":
		stats, err := svc.Stats(ctx)
		if err != nil {
			return err
		}
		renderStats(os.Stdout, stats)
		return nil

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		stage := fs.String("stage", "", "only candidates at this stage")
		officer := fs.String("officer", "", "only candidates of this hiring officer")
		search := fs.String("search", "", "case-insensitive name search")
		if err := fs.Parse(args); err != nil {
			return err
		}
		filter := port.CandidateFilter{HiringOfficerID: *officer, Search: *search}
		if *stage != "" {
			st, err := domainwf.ParseStage(*stage)
			if err != nil {
				return err
			}
			filter.Stage = st
		}
		list, err := svc.ListCandidates(ctx, operator, filter)
		if err != nil {
			return err
		}
		renderCandidates(os.Stdout, list)
		return nil

	case "report":
		fs := flag.NewFlagSet("report", flag.ContinueOnError)
		out := fs.String("o", "pipeline.xlsx", "output workbook path")
		if err := fs.Parse(args); err != nil {
			return err
		}
		return writeReport(ctx, svc, logger, *out)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func writeReport(ctx context.Context, svc service.CandidateService, logger *zap.Logger, path string) error {
	all, err := svc.ListCandidates(ctx, operator, port.CandidateFilter{})
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := report.NewPipelineReport(logger).Write(f, all, service.BuildStats(all)); err != nil {
		return err
	}
	color.Green("wrote %d candidates to %s", len(all), path)
	return nil
}

func renderStats(w io.Writer, stats *entity.PipelineStats) {
	color.New(color.FgCyan, color.Bold).Fprintln(w, "\n=== Recruitment Pipeline ===")
	fmt.Fprintf(w, "Total: %d  Active: %d  Completed: %d\n\n", stats.Total, stats.Active, stats.Completed)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Stage", "Candidates"})
	for _, s := range domainwf.Stages() {
		n := stats.ByStage[s]
		if n == 0 && s.IsReserved() {
			continue
		}
		table.Append([]string{s.String(), strconv.Itoa(n)})
	}
	table.Render()

	if len(stats.PriorityCases) == 0 {
		return
	}
	color.New(color.FgYellow).Fprintln(w, "\nPriority cases")
	priority := tablewriter.NewWriter(w)
	priority.SetHeader([]string{"ID", "Name", "Stage", "Progress", "Hiring Officer"})
	cases := append([]entity.CandidateSummary(nil), stats.PriorityCases...)
	sort.Slice(cases, func(i, j int) bool { return cases[i].Progress > cases[j].Progress })
	for _, c := range cases {
		priority.Append([]string{c.ID, c.Name, c.Stage.String(), strconv.Itoa(c.Progress) + "%", c.HiringOfficerID})
	}
	priority.Render()
}

func renderCandidates(w io.Writer, list []*entity.Candidate) {
	if len(list) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No candidates found")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Stage", "Progress", "Medical", "Outstanding"})
	for _, c := range list {
		table.Append([]string{
			c.ID,
			c.Name,
			c.Stage.String(),
			strconv.Itoa(c.Progress) + "%",
			string(c.MedicalStatus),
			strconv.FormatFloat(c.Payment.Outstanding(), 'f', 0, 64),
		})
	}
	table.Render()
}
