// Package presentation contains the fyne widgets of the viewer window.
package presentation

import (
	"log/slog"
	"path/filepath"

	"dcmview/application"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// MainWindow is the single viewer window: image on the left, metadata
// and search on the right.
type MainWindow struct {
	window   fyne.Window
	image    *ImageView
	metadata *MetadataPane
	pane     *ResizePane
	logger   *slog.Logger
}

// MainWindowConfig holds configuration for MainWindow.
type MainWindowConfig struct {
	App      fyne.App
	Document *application.Document
	Size     fyne.Size
	Logger   *slog.Logger
}

// NewMainWindow creates the window for a loaded document.
func NewMainWindow(cfg *MainWindowConfig) *MainWindow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	w := &MainWindow{
		window: cfg.App.NewWindow(windowTitle(cfg.Document.Path)),
		logger: cfg.Logger,
	}

	w.init(cfg.Document, cfg.Size)

	w.window.SetMaster()
	w.window.SetOnClosed(func() {
		w.logger.Info("Main window closed")
	})

	return w
}

func (w *MainWindow) init(doc *application.Document, size fyne.Size) {
	w.image = NewImageView()
	w.image.Display(doc.Bitmap)

	w.metadata = NewMetadataPane(doc.Text)

	content := container.NewBorder(nil, nil, w.image, nil, w.metadata)
	w.pane = NewResizePane(content)
	w.pane.Bind(w.image)

	w.window.SetContent(w.pane)
	if size.Width > 0 && size.Height > 0 {
		w.window.Resize(size)
	}
}

// Show displays the window.
func (w *MainWindow) Show() {
	w.window.Show()
}

func windowTitle(path string) string {
	if path == "" {
		return "dcmview"
	}
	return "dcmview - " + filepath.Base(path)
}
