package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"formfill/internal/di"
	"formfill/internal/infrastructure/config"
	"formfill/internal/infrastructure/env"
)

// Exit codes: 0 all fields filled, 1 fill completed with errors, 2 the
// run never produced a result (bad config, unreachable page, browser
// startup failure).
const (
	exitOK    = 0
	exitFill  = 1
	exitFatal = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	app := kingpin.New("formfill", "Fills web forms from a YAML or JSON configuration")

	headful := app.Flag("headful", "Run the browser with a visible window").Bool()
	timeout := app.Flag("timeout", "Element lookup timeout").Default("10s").Duration()
	slowMotion := app.Flag("slow-motion", "Delay between browser actions, useful with --headful").Default("0s").Duration()
	noSandbox := app.Flag("no-sandbox", "Disable the Chromium sandbox (needed in some containers)").Bool()
	maxWidth := app.Flag("screenshot-max-width", "Downscale screenshots wider than this many pixels (0 keeps native size)").Default("0").Int()
	verbose := app.Flag("verbose", "Enable debug logging").Short('v').Bool()

	fillCmd := app.Command("fill", "Fill a form according to a config file and print the result as JSON")
	fillConfig := fillCmd.Flag("config", "Path to the form config").Short('c').Required().ExistingFile()

	inspectCmd := app.Command("inspect", "List the form controls found on a page as JSON")
	inspectURL := inspectCmd.Arg("url", "Page to inspect").Required().String()

	initCmd := app.Command("init", "Generate a starter config from the controls found on a page")
	initURL := initCmd.Arg("url", "Page to scaffold from").Required().String()
	initOut := initCmd.Flag("out", "Config file to write").Short('o').Default("formfill.yaml").String()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	envService := env.NewEnvService()
	headless := envService.GetBool("FORMFILL_HEADLESS", !*headful)
	browserTimeout := envService.GetDuration("FORMFILL_TIMEOUT", *timeout)
	slowMo := envService.GetDuration("FORMFILL_SLOW_MOTION", *slowMotion)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	container, err := di.NewContainer(ctx, di.Config{
		BrowserHeadless:    headless,
		BrowserTimeout:     browserTimeout,
		SlowMotion:         slowMo,
		NoSandbox:          *noSandbox,
		ScreenshotMaxWidth: *maxWidth,
		Verbose:            *verbose,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		return exitFatal
	}
	defer container.Close()

	switch command {
	case fillCmd.FullCommand():
		return runFill(ctx, container, *fillConfig)
	case inspectCmd.FullCommand():
		return runInspect(ctx, container, *inspectURL)
	case initCmd.FullCommand():
		return runInit(ctx, container, *initURL, *initOut)
	}
	return exitOK
}

// runFill prints the FillResult as JSON on stdout regardless of outcome,
// so callers can always parse it. Logs go to stderr.
func runFill(ctx context.Context, container *di.Container, path string) int {
	cfg, err := config.Load(path)
	if err != nil {
		container.Logger.Error("Config rejected", "path", path, "error", err)
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		return exitFatal
	}

	result, err := container.Filler.Fill(ctx, cfg)
	if err != nil {
		container.Logger.Error("Fill aborted", "error", err)
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		return exitFatal
	}

	if err := printJSON(result); err != nil {
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		return exitFatal
	}

	if !result.Success {
		return exitFill
	}
	return exitOK
}

func runInspect(ctx context.Context, container *di.Container, url string) int {
	controls, err := container.Inspector.Inspect(ctx, url)
	if err != nil {
		container.Logger.Error("Inspection failed", "url", url, "error", err)
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		return exitFatal
	}

	if err := printJSON(controls); err != nil {
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		return exitFatal
	}
	return exitOK
}

func runInit(ctx context.Context, container *di.Container, url, outPath string) int {
	cfg, err := container.Inspector.Scaffold(ctx, url)
	if err != nil {
		container.Logger.Error("Scaffold failed", "url", url, "error", err)
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		return exitFatal
	}

	if err := config.Save(cfg, outPath); err != nil {
		container.Logger.Error("Config write failed", "path", outPath, "error", err)
		fmt.Fprintf(os.Stderr, "formfill: %v\n", err)
		return exitFatal
	}

	fmt.Printf("Wrote starter config with %d fields to %s\n", len(cfg.Fields), outPath)
	return exitOK
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
