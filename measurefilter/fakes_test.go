package measurefilter

import "measure-filter/models"

type fakeMetrics map[string]*models.Metric

func (f fakeMetrics) ByKey(key string) (*models.Metric, bool) {
	m, ok := f[key]
	return m, ok
}

type fakeMessages map[string]string

func (f fakeMessages) Message(key, def string) string {
	if v, ok := f[key]; ok {
		return v
	}
	return def
}

func testMetrics() fakeMetrics {
	return fakeMetrics{
		"ncloc":        {Key: "ncloc", ShortName: "Lines of code", Description: "Non commenting lines of code", ValType: models.ValueTypeInt},
		"violations":   {Key: "violations", ShortName: "Violations", Description: "Violations", ValType: models.ValueTypeInt},
		"alert_status": {Key: "alert_status", ShortName: "Alert", Description: "Alert status", ValType: models.ValueTypeLevel},
		"coverage":     {Key: "coverage", ShortName: "Coverage", Description: "Coverage by unit tests", ValType: models.ValueTypePercent},
		"version":      {Key: "version", ShortName: "Version", ValType: models.ValueTypeString},
	}
}
