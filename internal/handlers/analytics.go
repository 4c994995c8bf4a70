package handlers

import "github.com/themartincox/peartree-sub006/internal/config"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	GTMContainerID   string // e.g. GTM-XXXXXXX
}

// AnalyticsFromConfig builds Analytics from loaded configuration.
func AnalyticsFromConfig(c config.AnalyticsConfig) Analytics {
	return Analytics{
		GA4MeasurementID: c.GA4MeasurementID,
		GTMContainerID:   c.GTMContainerID,
	}
}

// Enabled reports whether any tag should be emitted.
func (a Analytics) Enabled() bool {
	return a.GA4MeasurementID != "" || a.GTMContainerID != ""
}
