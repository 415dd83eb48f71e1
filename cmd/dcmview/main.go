// Package main is the entry point for dcmview.
package main

import (
	"context"
	"fmt"
	"os"

	"dcmview/application"
	"dcmview/infrastructure/config"
	"dcmview/infrastructure/dicomfile"
	"dcmview/infrastructure/logging"
	"dcmview/presentation"
	"dcmview/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

func main() {
	// The argument is checked before anything touches the filesystem.
	path, err := application.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Application needs at least one argument! (DICOM file name)")
		os.Exit(-1)
	}

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration: "+err.Error())
		os.Exit(1)
	}

	logger, closeLog, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logging: "+err.Error())
		os.Exit(1)
	}

	fmt.Println(path)

	ctx := logging.WithAttrs(context.Background(), "file", path)

	viewer := application.NewViewer(&application.ViewerConfig{
		Source:      dicomfile.NewReader(logger),
		PrivateTags: cfg.PrivateTags,
		DumpOptions: cfg.Metadata,
	})

	doc, err := viewer.Open(ctx, path)
	if err != nil {
		logger.Error("Failed to open file", "file", path, "error", err)
		fmt.Fprintln(os.Stderr, "Invalid DICOM file: "+err.Error())
		closeLog()
		os.Exit(-1)
	}

	fyneApp := app.New()
	fyneApp.SetIcon(resources.AppIcon())

	mainWindow := presentation.NewMainWindow(&presentation.MainWindowConfig{
		App:      fyneApp,
		Document: doc,
		Size:     fyne.NewSize(cfg.Window.Width, cfg.Window.Height),
		Logger:   logger,
	})

	mainWindow.Show()
	fyneApp.Run()

	logger.Info("Application shutdown complete")
	closeLog()
}
