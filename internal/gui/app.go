// Main window: toolbar, operation buttons and image display
package gui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"image-processing-app/internal/algorithms"
	"image-processing-app/internal/config"
	"image-processing-app/internal/core"
	"image-processing-app/internal/io"
)

const (
	windowTitle = "Image Processing App"
	plotWidth   = 512
	plotHeight  = 300
)

// Application is the presenter: it renders controller state and forwards user intent.
type Application struct {
	app        fyne.App
	window     fyne.Window
	logger     *logrus.Logger
	cfg        *config.Config
	controller *core.Controller

	imageView    *canvas.Image
	statusLabel  *widget.Label
	infoLabel    *widget.Label
	contourLabel *widget.Label
	detailLabel  *widget.Label

	openBtn   *widget.Button
	saveBtn   *widget.Button
	opButtons map[string]*widget.Button
	opOrder   []string
}

func NewApplication(app fyne.App, controller *core.Controller, cfg *config.Config, logger *logrus.Logger) *Application {
	window := app.NewWindow(windowTitle)
	window.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))
	window.CenterOnScreen()

	a := &Application{
		app:        app,
		window:     window,
		logger:     logger,
		cfg:        cfg,
		controller: controller,
		opButtons:  make(map[string]*widget.Button),
	}

	a.initializeGUI()
	a.setupLayout()
	controller.SetPresenter(a)
	a.updateControls()

	return a
}

func (a *Application) initializeGUI() {
	a.imageView = canvas.NewImageFromImage(placeholderImage())
	a.imageView.FillMode = canvas.ImageFillContain
	a.imageView.ScaleMode = canvas.ImageScaleSmooth
	a.imageView.SetMinSize(fyne.NewSize(320, 240))

	a.statusLabel = widget.NewLabel("Load an image to begin")
	a.infoLabel = widget.NewLabel("")
	a.contourLabel = widget.NewLabel("")
	a.detailLabel = widget.NewLabel("")
	a.detailLabel.Wrapping = fyne.TextWrapWord

	a.openBtn = widget.NewButtonWithIcon("Load Image", theme.FolderOpenIcon(), a.openImage)
	a.openBtn.Importance = widget.HighImportance
	a.saveBtn = widget.NewButtonWithIcon("Save Image", theme.DocumentSaveIcon(), a.saveImage)
	a.saveBtn.Importance = widget.HighImportance

	for _, entry := range a.controller.Operations() {
		id := entry.ID
		btn := widget.NewButton(entry.Algorithm.GetName(), func() {
			a.applyOperation(id)
		})
		a.opButtons[id] = btn
		a.opOrder = append(a.opOrder, id)
	}
}

func (a *Application) setupLayout() {
	toolbar := container.NewHBox(
		a.openBtn,
		a.saveBtn,
		widget.NewSeparator(),
		a.infoLabel,
	)

	order, groups := a.controller.Categories()
	cards := container.NewVBox()
	for _, category := range order {
		buttons := container.NewGridWithColumns(1)
		for _, id := range groups[category] {
			buttons.Add(a.opButtons[id])
		}
		cards.Add(widget.NewCard(category, "", buttons))
	}

	status := container.NewHBox(a.statusLabel, layout.NewSpacer(), a.contourLabel)

	sidebar := container.NewBorder(nil, a.detailLabel, nil, nil, container.NewVScroll(cards))

	content := container.NewBorder(
		toolbar,
		status,
		sidebar,
		nil,
		container.NewPadded(a.imageView),
	)

	a.window.SetContent(content)
}

// Render implements core.Presenter.
func (a *Application) Render(img gocv.Mat) {
	preview, err := PreviewImage(img, a.cfg.DisplayMaxWidth, a.cfg.DisplayMaxHeight)
	if err != nil {
		a.showError("Render Error", err)
		return
	}

	a.imageView.Image = preview
	a.imageView.Refresh()

	meta := a.controller.Metadata()
	a.infoLabel.SetText(fmt.Sprintf("%s  %dx%d  %d ch", filepath.Base(a.controller.Path()), meta.Width, meta.Height, meta.Channels))
	a.logger.WithFields(logrus.Fields{
		"width":  preview.Bounds().Dx(),
		"height": preview.Bounds().Dy(),
	}).Debug("Image rendered")
}

// ShowHistogram implements core.Presenter.
func (a *Application) ShowHistogram(h *algorithms.Histogram) {
	plot, err := algorithms.RenderHistogram(h, plotWidth, plotHeight)
	if err != nil {
		a.showError("Histogram Error", err)
		return
	}
	defer plot.Close()

	img, err := plot.ToImage()
	if err != nil {
		a.showError("Histogram Error", err)
		return
	}

	view := canvas.NewImageFromImage(img)
	view.FillMode = canvas.ImageFillOriginal

	legend := container.NewHBox()
	for _, s := range h.Series {
		legend.Add(widget.NewLabel(fmt.Sprintf("%s: %d px", s.Label, s.Total())))
	}

	d := dialog.NewCustom(h.Title, "Close", container.NewVBox(view, legend), a.window)
	d.Show()
}

// ShowContours implements core.Presenter.
func (a *Application) ShowContours(edges gocv.Mat, count int) {
	_, text, _ := a.controller.LastContours()
	a.contourLabel.SetText(text)
	a.updateStatusMessage(text)

	preview, err := PreviewImage(edges, a.cfg.DisplayMaxWidth/2, a.cfg.DisplayMaxHeight/2)
	if err != nil {
		a.showError("Contour Error", err)
		return
	}

	view := canvas.NewImageFromImage(preview)
	view.FillMode = canvas.ImageFillOriginal
	d := dialog.NewCustom(fmt.Sprintf("Contour Detection (%d)", count), "Close", view, a.window)
	d.Show()
}

// OperationDetails describes the operation id and its fixed parameters.
func (a *Application) OperationDetails(id string) string {
	for _, entry := range a.controller.Operations() {
		if entry.ID != id {
			continue
		}
		algorithm := entry.Algorithm
		params := make([]string, 0, len(algorithm.GetParameterInfo()))
		for _, p := range algorithm.GetParameterInfo() {
			params = append(params, fmt.Sprintf("%s %v", p.Name, p.Value))
		}
		text := fmt.Sprintf("%s: %s", algorithm.GetName(), algorithm.GetDescription())
		if len(params) > 0 {
			text += "\n" + strings.Join(params, ", ")
		}
		return text
	}
	return ""
}

func (a *Application) applyOperation(id string) {
	a.detailLabel.SetText(a.OperationDetails(id))

	result, err := a.controller.Apply(id)
	if err != nil {
		a.showError("Processing Error", err)
		return
	}
	if result.Skipped {
		return
	}
	if result.Replaced {
		a.updateStatusMessage(fmt.Sprintf("Applied: %s", a.opButtons[id].Text))
	}
}

func (a *Application) openImage() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return // User cancelled
		}
		path := reader.URI().Path()
		reader.Close()

		if err := a.LoadImageFromPath(path); err != nil {
			a.showError("Failed to Load Image", err)
		}
	}, a.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

func (a *Application) saveImage() {
	if a.controller.State() == core.StateEmpty {
		a.showError("No Image", core.ErrNoImageLoaded)
		return
	}

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.showError("File Dialog Error", err)
			return
		}
		if writer == nil {
			return // User cancelled
		}
		path := writer.URI().Path()
		writer.Close()
		a.saveChosenFile(path)
	}, a.window)

	fileDialog.SetFileName(a.cfg.DefaultSaveName)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

// saveChosenFile saves to a path picked in the save dialog. The dialog has already
// created that file, so it is removed again when nothing was written to it.
func (a *Application) saveChosenFile(path string) {
	target, err := a.SaveImageToPath(path)
	if err != nil || target != path {
		a.removeEmptyFile(path)
	}
	if err != nil {
		a.showError("Failed to Save Image", err)
	}
}

func (a *Application) removeEmptyFile(path string) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > 0 {
		return
	}
	if err := os.Remove(path); err != nil {
		a.logger.WithError(err).WithField("filepath", path).Warn("Failed to remove empty file")
	}
}

// LoadImageFromPath loads path into the controller and refreshes the window.
func (a *Application) LoadImageFromPath(path string) error {
	if err := a.controller.Load(path); err != nil {
		return err
	}
	a.contourLabel.SetText("")
	a.window.SetTitle(fmt.Sprintf("%s - %s", windowTitle, filepath.Base(path)))
	a.updateStatusMessage(fmt.Sprintf("Loaded: %s", path))
	a.updateControls()
	return nil
}

// SaveImageToPath saves the buffer, normalising the extension first. It returns the path written.
func (a *Application) SaveImageToPath(path string) (string, error) {
	target := NormalizeSavePath(path)
	if err := a.controller.Save(target); err != nil {
		return "", err
	}
	a.updateStatusMessage(fmt.Sprintf("Saved: %s", target))
	return target, nil
}

func (a *Application) updateControls() {
	loaded := a.controller.State() == core.StateLoaded
	for _, id := range a.opOrder {
		if loaded {
			a.opButtons[id].Enable()
		} else {
			a.opButtons[id].Disable()
		}
	}
	if loaded {
		a.saveBtn.Enable()
	} else {
		a.saveBtn.Disable()
	}
}

func (a *Application) updateStatusMessage(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

func (a *Application) cleanup() {
	a.logger.Info("Cleaning up application resources")
	a.controller.Close()
}

func (a *Application) showError(title string, err error) {
	entry := a.logger.WithError(err)
	if errors.Is(err, core.ErrNoImageLoaded) {
		entry.Warn(title)
	} else {
		entry.Error(title)
	}
	dialog.ShowError(err, a.window)
	a.updateStatusMessage(fmt.Sprintf("Error: %s", err.Error()))
}
