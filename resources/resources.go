// Package resources holds assets embedded into the binary.
package resources

import (
	_ "embed"

	"fyne.io/fyne/v2"
)

//go:embed icons/app.svg
var iconData []byte

// AppIcon returns the application icon.
func AppIcon() fyne.Resource {
	return &fyne.StaticResource{
		StaticName:    "app.svg",
		StaticContent: iconData,
	}
}
