package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"r42copilot/analysis"
	"r42copilot/core"
	"r42copilot/demo"
	"r42copilot/localstore"
	"r42copilot/logging"
	"r42copilot/profile"
)

const usage = `r42copilot - health report analysis

Usage:
  r42copilot init [flags]        create or update your profile
  r42copilot upload [flags] <file.pdf> [more.pdf ...]
  r42copilot analyze [-latest | <report-id>]
  r42copilot reports             list uploaded reports, newest first
  r42copilot show [-latest | -platform <name> | <report-id>]
  r42copilot demo [-platform neuroage|iollo] [-seed N]
  r42copilot clear -yes          delete profile and all reports

Run "r42copilot <command> -h" for command flags.`

func main() {
	if err := godotenv.Load(); err != nil {
		// Logger isn't up yet.
		fmt.Fprintf(os.Stderr, "Warning: .env file not found: %v\n", err)
	}

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(core.ExitCodeError)
	}

	isDevelopment := os.Getenv("DEV_MODE") == "true"

	config, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(core.ExitCodeError)
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		os.Exit(core.ExitCodeError)
	}

	logger, err := logging.NewLogger(isDevelopment, filepath.Join(config.DataDir, "r42copilot.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(core.ExitCodeError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := run(ctx, config, logger, os.Args[1], os.Args[2:])

	// os.Exit skips deferred calls, so flush and release by hand.
	stop()
	logger.Sync()
	os.Exit(code)
}

func run(ctx context.Context, config *core.Config, logger *logging.Logger, command string, args []string) int {
	kv, err := localstore.Open(filepath.Join(config.DataDir, "store.db"), config.StoreQuotaBytes)
	if err != nil {
		logger.Error("failed to open local store", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to open local store: %v\n", err)
		return core.ExitCodeError
	}
	defer kv.Close()

	store, err := profile.New(kv, logger)
	if err != nil {
		logger.Error("failed to load user data", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to load user data: %v\n", err)
		return core.ExitCodeError
	}

	// Upload and browse commands work without a credential; only analysis
	// needs one.
	var analyzer *analysis.Client
	if config.APIKey() != "" {
		analyzer, err = analysis.NewClientFromConfig(config, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", DescribeAnalysisError(err))
			return core.ExitCodeError
		}
	}
	pipeline := NewPipeline(config, store, analyzer, logger)

	switch command {
	case "init":
		return cmdInit(store, args)
	case "upload":
		return cmdUpload(ctx, pipeline, args)
	case "analyze":
		return cmdAnalyze(ctx, pipeline, store, args)
	case "reports":
		return cmdReports(store)
	case "show":
		return cmdShow(store, args)
	case "demo":
		return cmdDemo(args)
	case "clear":
		return cmdClear(store, args)
	case "-h", "--help", "help":
		fmt.Println(usage)
		return core.ExitCodeSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s\n", command, usage)
		return core.ExitCodeError
	}
}

func cmdInit(store *profile.Store, args []string) int {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	current := store.Profile()
	first := fs.String("first", current.FirstName, "first name")
	last := fs.String("last", current.LastName, "last name")
	email := fs.String("email", current.Email, "email address")
	age := fs.String("age", current.Age, "age")
	sex := fs.String("sex", current.Sex, "sex")
	height := fs.String("height", current.Height, `height (inches or 5'11")`)
	weight := fs.String("weight", current.Weight, "weight in lbs")
	goals := fs.String("goals", current.HealthGoals, "health goals")
	supplements := fs.String("supplements", current.CurrentSupplements, "current supplements")
	jona := fs.Bool("jona", current.Diagnostics.JonaHealth, "have Jona Health reports")
	neuroage := fs.Bool("neuroage", current.Diagnostics.NeuroAge, "have NeuroAge reports")
	iollo := fs.Bool("iollo", current.Diagnostics.Iollo, "have Iollo reports")
	appleHealth := fs.Bool("apple-health", current.AppleHealthConnected, "Apple Health connected")
	consent := fs.Bool("consent", current.ResearchConsent, "consent to research use")
	fs.Parse(args)

	store.SetProfile(profile.UserProfile{
		FirstName:          *first,
		LastName:           *last,
		Email:              *email,
		Age:                *age,
		Sex:                *sex,
		Height:             *height,
		Weight:             *weight,
		HealthGoals:        *goals,
		CurrentSupplements: *supplements,
		Diagnostics: profile.DiagnosticSelection{
			JonaHealth: *jona,
			NeuroAge:   *neuroage,
			Iollo:      *iollo,
		},
		AppleHealthConnected: *appleHealth,
		ResearchConsent:      *consent,
	})

	color.New(color.FgGreen).Println("Profile saved.")
	renderProfile(os.Stdout, store.Profile())
	return core.ExitCodeSuccess
}

func cmdUpload(ctx context.Context, pipeline *Pipeline, args []string) int {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	platform := fs.String("platform", "", "platform the report came from (required)")
	analyze := fs.Bool("analyze", false, "run analysis after upload")
	fs.Parse(args)

	paths := fs.Args()
	if *platform == "" || len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: r42copilot upload -platform <name> [-analyze] <file.pdf> [more.pdf ...]")
		return core.ExitCodeError
	}

	if len(paths) == 1 {
		if !*analyze {
			report, err := pipeline.Upload(paths[0], *platform)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Upload failed: %v\n", err)
				return core.ExitCodeError
			}
			color.New(color.FgGreen).Printf("Uploaded %s (%s)\n", report.Filename, report.ID)
			return core.ExitCodeSuccess
		}
		report, err := pipeline.UploadAndAnalyze(ctx, paths[0], *platform)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", DescribeAnalysisError(err))
			return core.ExitCodeError
		}
		renderInsights(os.Stdout, report)
		return core.ExitCodeSuccess
	}

	// Several files: extract concurrently, then one combined analysis when
	// requested.
	if !*analyze {
		pipeline.analyzer = nil
	}
	reports, errs := pipeline.UploadBatch(ctx, paths, *platform)
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", DescribeAnalysisError(err))
	}
	color.New(color.FgGreen).Printf("Uploaded %d of %d files.\n", len(reports), len(paths))
	if len(reports) == 0 {
		return core.ExitCodeError
	}
	if *analyze && reports[0].Insights != nil {
		renderInsights(os.Stdout, reports[0])
	}
	return core.ExitCodeSuccess
}

func cmdAnalyze(ctx context.Context, pipeline *Pipeline, store *profile.Store, args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	latest := fs.Bool("latest", false, "analyze the most recent report")
	fs.Parse(args)

	var report profile.UploadedReport
	var err error
	switch {
	case *latest:
		report, err = pipeline.AnalyzeLatest(ctx)
	case fs.NArg() == 1:
		id := fs.Arg(0)
		if err = pipeline.AnalyzeReport(ctx, id); err == nil {
			report, err = store.Report(id)
		}
	default:
		fmt.Fprintln(os.Stderr, "Usage: r42copilot analyze [-latest | <report-id>]")
		return core.ExitCodeError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", DescribeAnalysisError(err))
		return core.ExitCodeError
	}
	renderInsights(os.Stdout, report)
	return core.ExitCodeSuccess
}

func cmdReports(store *profile.Store) int {
	renderReportList(os.Stdout, store.ReportsLatestFirst())
	return core.ExitCodeSuccess
}

func cmdShow(store *profile.Store, args []string) int {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	latest := fs.Bool("latest", false, "show the most recent report")
	platform := fs.String("platform", "", "show the latest report for a platform")
	fs.Parse(args)

	var report profile.UploadedReport
	var err error
	switch {
	case *platform != "":
		report, err = store.LatestReportForPlatform(*platform)
	case *latest:
		reports := store.ReportsLatestFirst()
		if len(reports) == 0 {
			err = profile.ErrReportNotFound
		} else {
			report = reports[0]
		}
	case fs.NArg() == 1:
		report, err = store.Report(fs.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "Usage: r42copilot show [-latest | -platform <name> | <report-id>]")
		return core.ExitCodeError
	}
	if err != nil {
		if errors.Is(err, profile.ErrReportNotFound) {
			fmt.Fprintln(os.Stderr, "No matching report. Upload one first.")
		} else {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		}
		return core.ExitCodeError
	}
	renderInsights(os.Stdout, report)
	return core.ExitCodeSuccess
}

func cmdDemo(args []string) int {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	platform := fs.String("platform", "iollo", "demo platform: neuroage or iollo")
	seed := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	fs.Parse(args)

	gen := demo.NewGenerator(*seed)
	now := time.Now().UTC()
	switch *platform {
	case "neuroage":
		data := gen.NeuroAge("neuroage-sample.pdf")
		renderInsights(os.Stdout, profile.UploadedReport{
			Filename:   data.Filename,
			Platform:   "NeuroAge",
			UploadedAt: now,
			Insights:   demo.NeuroAgeInsights(data),
		})
	case "iollo":
		data := gen.Iollo("iollo-sample.pdf")
		renderInsights(os.Stdout, profile.UploadedReport{
			Filename:   data.Filename,
			Platform:   "Iollo",
			UploadedAt: now,
			Insights:   demo.IolloInsights(data),
		})
	default:
		fmt.Fprintf(os.Stderr, "Unknown demo platform %q (want neuroage or iollo)\n", *platform)
		return core.ExitCodeError
	}
	color.New(color.FgHiBlack).Println("\nSample data only. Upload a real report for actual insights.")
	return core.ExitCodeSuccess
}

func cmdClear(store *profile.Store, args []string) int {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	yes := fs.Bool("yes", false, "confirm deletion")
	fs.Parse(args)

	if !*yes {
		fmt.Fprintln(os.Stderr, "This deletes your profile and all reports. Re-run with -yes to confirm.")
		return core.ExitCodeError
	}
	if err := store.Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to clear data: %v\n", err)
		return core.ExitCodeError
	}
	color.New(color.FgGreen).Println("All data cleared.")
	return core.ExitCodeSuccess
}
