package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the command line settings shared by the window and exporter.
type Config struct {
	ScenePath  string
	FramesPath string
	Width      int
	Height     int
	DPR        float64
	Watch      bool

	// export
	OutputVideo  string
	Duration     float64
	FPS          int
	Workers      int
	FadeDuration float64
	Ease         string
	AudioPath    string
	VideoEncoder string
	Quality      int
	ShowStats    bool
	BuildVersion string
}

// StreamParams describes the raw frame stream handed to the encoder.
type StreamParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	FadeDuration  float64
	AudioPath     string
	VideoEncoder  string
	Quality       int
}

// Validate checks values shared by both binaries.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("размер окна должен быть положительным: %dx%d", c.Width, c.Height))
	}
	if c.DPR < 0 {
		errs = append(errs, fmt.Errorf("dpr не может быть отрицательным: %v", c.DPR))
	}
	return errors.Join(errs...)
}

// ValidateExport additionally checks the export settings.
func (c *Config) ValidateExport() error {
	var errs []error
	if err := c.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.OutputVideo == "" {
		errs = append(errs, errors.New("не указан выходной файл"))
	}
	if c.Duration <= 0 && c.AudioPath == "" {
		errs = append(errs, fmt.Errorf("длительность должна быть положительной: %v", c.Duration))
	}
	if c.FPS <= 0 || c.FPS > 240 {
		errs = append(errs, fmt.Errorf("некорректный fps: %d", c.FPS))
	}
	if c.FadeDuration < 0 || (c.Duration > 0 && 2*c.FadeDuration > c.Duration) {
		errs = append(errs, fmt.Errorf("некорректная длительность затухания: %v", c.FadeDuration))
	}
	switch strings.ToLower(c.Ease) {
	case "", "linear", "ease":
	default:
		errs = append(errs, fmt.Errorf("неизвестная функция сглаживания: %q", c.Ease))
	}
	return errors.Join(errs...)
}
