package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"image-processing-app/internal/algorithms"
	"image-processing-app/internal/config"
	"image-processing-app/internal/core"
	"image-processing-app/internal/gui"
	"image-processing-app/internal/io"
)

const (
	AppName    = "Image Processing App"
	AppID      = "com.imageprocessing.app"
	AppVersion = "1.0.0"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "imageproc [image]",
	Short:   "Desktop image editor backed by OpenCV",
	Long:    `Load an image, apply grayscale, contrast, brightness, filter, edge and histogram operations, and save the result.`,
	Version: AppVersion,
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.imageproc.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode with verbose logging")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}

	logger := initLogger(cfg)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": cfg.Debug,
		"config":     viper.ConfigFileUsed(),
	}).Info("Starting Image Processing App")

	controller := core.NewController(io.NewImageLoader(logger), algorithms.NewCatalog(), logger)

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	mainApp := gui.NewApplication(myApp, controller, cfg, logger)
	if len(args) == 1 {
		if err := mainApp.LoadImageFromPath(args[0]); err != nil {
			logger.WithError(err).Warn("Startup image not loaded")
		}
	}
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
	return nil
}

// initLogger initializes the logger with appropriate level
func initLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	format := cfg.LogFormat
	if format == "" {
		format = "json"
		if cfg.Debug {
			format = "text"
		}
	}

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	logger.Debug("Debug logging enabled")
	return logger
}
