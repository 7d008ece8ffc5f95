package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/config"
	"github.com/Cordylus1/Calculadora-OpenProject/internal/openproject"
)

// newSource builds the OpenProject client from the loaded configuration.
func newSource(c *config.AppConfig, log zerolog.Logger) (*openproject.Client, error) {
	if err := c.OpenProject.Validate(); err != nil {
		return nil, err
	}
	return openproject.NewClient(c.OpenProject.URL, c.OpenProject.APIKey,
		openproject.WithHTTPClient(&http.Client{Timeout: c.OpenProject.Timeout()}),
		openproject.WithPageSize(c.OpenProject.PageSize),
		openproject.WithLogger(log),
	)
}
