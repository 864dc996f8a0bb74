package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/clipline/internal/app"
	"github.com/llehouerou/clipline/internal/catalog"
	"github.com/llehouerou/clipline/internal/config"
	"github.com/llehouerou/clipline/internal/editor"
	"github.com/llehouerou/clipline/internal/logging"
	"github.com/llehouerou/clipline/internal/media"
	"github.com/llehouerou/clipline/internal/preview"
)

// options are the flags shared by every command.
type options struct {
	configPath  string
	mediaFolder string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "clipline",
		Short: "Arrange video clips and stills on a timeline in the terminal",
		Long: `clipline lists the media folder, lets you append clips to a single
timeline, drag them around with the mouse and scrub the playhead while
the preview follows the clip under it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(*cobra.Command, []string) error {
			return runTUI(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file loaded after the default locations")
	cmd.PersistentFlags().StringVar(&opts.mediaFolder, "media", "", "Media folder shown in the bin (overrides media_folder)")

	cmd.AddCommand(newProbeCmd(opts))
	return cmd
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.mediaFolder != "" {
		cfg.MediaFolder = opts.mediaFolder
	}
	return cfg, nil
}

func newProber(cfg *config.Config, opts ...media.ProberOption) *media.FileProber {
	return media.NewFileProber(append([]media.ProberOption{
		media.WithImageDuration(cfg.GetImageDuration()),
		media.WithFFprobe(cfg.GetFFprobe()),
	}, opts...)...)
}

func runTUI(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	root := cfg.MediaFolder
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return err
		}
	}
	if root, err = filepath.Abs(root); err != nil {
		return err
	}

	logger, closer, err := logging.Open(cfg.GetLogLevel())
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closer.Close()

	prober := newProber(cfg, media.WithLogger(logging.WithComponent(logger, "probe")))

	cat, err := catalog.Open(prober, catalog.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer cat.Close()

	pv := preview.New(
		preview.WithKitty(preview.KittyEnabled(cfg.KittyMode())),
		preview.WithLogger(logging.WithComponent(logger, "preview")),
	)

	ed, err := editor.New(pv, editor.Options{
		PixelsPerSecond: cfg.GetPixelsPerSecond(),
		Tolerance:       cfg.GetPlayheadTolerance(),
		ImageDuration:   prober.ImageDuration(),
		Logger:          logger,
	})
	if err != nil {
		return err
	}
	defer ed.Close()

	m, err := app.New(app.Deps{
		Editor:  ed,
		Preview: pv,
		Catalog: cat,
		Root:    root,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	logger.Info("starting", "root", logging.SanitizePath(root))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := p.Run()

	// Free any still left in terminal memory
	fmt.Fprint(os.Stdout, pv.Close())

	if runErr != nil {
		return fmt.Errorf("run program: %w", runErr)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
