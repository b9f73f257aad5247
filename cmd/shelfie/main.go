// Package main provides the shelfie command line client. It runs the same
// pipelines as the API server, in process.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"go.uber.org/fx"

	"github.com/shelfie/shelfie/internal/domain/analysis"
	"github.com/shelfie/shelfie/internal/infrastructure/config"
	"github.com/shelfie/shelfie/internal/infrastructure/container"
	"github.com/shelfie/shelfie/internal/ports/inbound"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeUsage   = 2
)

const usage = `Usage: shelfie [-config path] [-v] <command> [flags]

Commands:
  analyze  -image path [-detect] [-lang xx] [-narrate] [-persist] [-json]
  suggest  (-image path | -ingredients "...") [-lang xx] [-narrate] [-json]
  status   show which capabilities are available
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("shelfie", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", os.Getenv("SHELFIE_CONFIG"), "Configuration file path")
	verbose := global.Bool("v", false, "Verbose logging")
	if err := global.Parse(args); err != nil {
		return exitCodeUsage
	}
	if global.NArg() == 0 {
		global.Usage()
		return exitCodeUsage
	}

	command, rest := global.Arg(0), global.Args()[1:]
	var action func(ctx context.Context, svc inbound.MealService) int

	switch command {
	case "analyze":
		req, asJSON, code := parseAnalyze(rest, stderr)
		if code != exitCodeSuccess {
			return code
		}
		action = func(ctx context.Context, svc inbound.MealService) int {
			result, err := svc.AnalyzeMeal(ctx, req)
			return render(stdout, stderr, result, err, asJSON)
		}
	case "suggest":
		req, asJSON, code := parseSuggest(rest, stderr)
		if code != exitCodeSuccess {
			return code
		}
		action = func(ctx context.Context, svc inbound.MealService) int {
			result, err := svc.SuggestMeals(ctx, req)
			return render(stdout, stderr, result, err, asJSON)
		}
	case "status":
		action = func(_ context.Context, svc inbound.MealService) int {
			return renderStatus(stdout, svc)
		}
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", command)
		global.Usage()
		return exitCodeUsage
	}

	var svc inbound.MealService
	app := fx.New(
		fx.NopLogger,
		container.ConfigModule(*configPath),
		fx.Decorate(func(cfg *config.Config) *config.Config {
			// keep stdout for results
			if !*verbose {
				cfg.App.LogLevel = "error"
			}
			return cfg
		}),
		container.CoreModule,
		fx.Populate(&svc),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(stderr, "shelfie: %v\n", err)
		return exitCodeFailure
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "shelfie: %v\n", err)
		return exitCodeFailure
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		_ = app.Stop(stopCtx)
	}()

	return action(ctx, svc)
}

func parseAnalyze(args []string, stderr io.Writer) (analysis.AnalysisRequest, bool, int) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	imagePath := fs.String("image", "", "Path to the meal photo (JPEG, PNG or GIF)")
	detect := fs.Bool("detect", false, "Enrich the analysis with object detection")
	lang := fs.String("lang", analysis.DefaultLanguage, "Output language")
	narrate := fs.Bool("narrate", false, "Read the result aloud")
	persist := fs.Bool("persist", false, "Save the analysis to the analytics store")
	asJSON := fs.Bool("json", false, "Print the full result as JSON")
	if err := fs.Parse(args); err != nil {
		return analysis.AnalysisRequest{}, false, exitCodeUsage
	}
	if *imagePath == "" {
		fmt.Fprintln(stderr, "analyze: -image is required")
		return analysis.AnalysisRequest{}, false, exitCodeUsage
	}

	image, err := os.ReadFile(*imagePath)
	if err != nil {
		fmt.Fprintf(stderr, "analyze: %v\n", err)
		return analysis.AnalysisRequest{}, false, exitCodeFailure
	}

	return analysis.AnalysisRequest{
		Image:          image,
		UseDetection:   *detect,
		TargetLanguage: *lang,
		Narrate:        *narrate,
		Persist:        *persist,
	}, *asJSON, exitCodeSuccess
}

func parseSuggest(args []string, stderr io.Writer) (analysis.AnalysisRequest, bool, int) {
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	imagePath := fs.String("image", "", "Path to a photo of ingredients")
	ingredients := fs.String("ingredients", "", "Comma separated ingredient list")
	lang := fs.String("lang", analysis.DefaultLanguage, "Output language")
	narrate := fs.Bool("narrate", false, "Read the suggestions aloud")
	asJSON := fs.Bool("json", false, "Print the full result as JSON")
	if err := fs.Parse(args); err != nil {
		return analysis.AnalysisRequest{}, false, exitCodeUsage
	}
	if (*imagePath == "") == (strings.TrimSpace(*ingredients) == "") {
		fmt.Fprintln(stderr, "suggest: exactly one of -image or -ingredients is required")
		return analysis.AnalysisRequest{}, false, exitCodeUsage
	}

	req := analysis.AnalysisRequest{
		IngredientsText: *ingredients,
		TargetLanguage:  *lang,
		Narrate:         *narrate,
	}
	if *imagePath != "" {
		image, err := os.ReadFile(*imagePath)
		if err != nil {
			fmt.Fprintf(stderr, "suggest: %v\n", err)
			return analysis.AnalysisRequest{}, false, exitCodeFailure
		}
		req.Image = image
	}
	return req, *asJSON, exitCodeSuccess
}

func render(stdout, stderr io.Writer, result *analysis.AnalysisResult, err error, asJSON bool) int {
	if err != nil {
		fmt.Fprintf(stderr, "shelfie: %v\n", err)
		return exitCodeFailure
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(stderr, "shelfie: %v\n", err)
			return exitCodeFailure
		}
		return exitCodeSuccess
	}

	fmt.Fprintln(stdout, analysis.FormatForDisplay(result.Kind, result.TranslatedText))

	if f := result.StructuredFields; f != nil {
		fmt.Fprintf(stdout, "\nCalories: %g kcal | Protein: %g g | Carbs: %g g | Fat: %g g | Health: %s\n",
			f.Calories, f.Protein, f.Carbs, f.Fat, f.HealthRating)
	}
	if d := result.Detection; d != nil && len(d.Labels) > 0 {
		fmt.Fprintf(stdout, "Detected: %s\n", strings.Join(d.Labels, ", "))
	}
	if result.Persisted {
		fmt.Fprintln(stdout, "Saved to analytics.")
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}
	fmt.Fprintf(stdout, "Tokens: %d", result.Usage.TotalTokens)
	if result.Usage.Estimated {
		fmt.Fprint(stdout, " (estimated)")
	}
	fmt.Fprintln(stdout)
	return exitCodeSuccess
}

func renderStatus(stdout io.Writer, svc inbound.MealService) int {
	status := svc.Capabilities()

	fmt.Fprintf(stdout, "Generative model: %s (%s)\n", status.GenerativeProvider, status.GenerativeModel)
	fmt.Fprintf(stdout, "Object detection: %s\n", availability(status.Detector, status.DetectorBackend))
	fmt.Fprintf(stdout, "Translation:      %s\n", availability(status.Translator, status.TranslatorBackend))
	fmt.Fprintf(stdout, "Analytics:        %s\n", availability(status.Analytics, status.AnalyticsDriver))
	fmt.Fprintf(stdout, "Speech chain:     %s\n", strings.Join(status.SpeechChain, " -> "))

	codes := make([]string, 0, len(analysis.SupportedLanguages))
	for code := range analysis.SupportedLanguages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, fmt.Sprintf("%s (%s)", analysis.SupportedLanguages[code], code))
	}
	fmt.Fprintf(stdout, "Languages:        %s\n", strings.Join(names, ", "))
	return exitCodeSuccess
}

func availability(ok bool, backend string) string {
	if !ok {
		return "unavailable"
	}
	return "available via " + backend
}
