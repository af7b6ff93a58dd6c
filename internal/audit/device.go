package audit

import "strings"

// Device - результат классификации строки клиента. Используется только для отображения.
type Device struct {
	Kind    string `json:"kind"`
	Browser string `json:"browser"`
}

const unknown = "unknown"

type rule struct {
	match func(ua string) bool
	label string
}

// allOf совпадает, если строка содержит все токены.
func allOf(tokens ...string) func(string) bool {
	return func(ua string) bool {
		for _, tok := range tokens {
			if !strings.Contains(ua, tok) {
				return false
			}
		}
		return true
	}
}

// anyOf совпадает, если строка содержит хотя бы один токен.
func anyOf(tokens ...string) func(string) bool {
	return func(ua string) bool {
		for _, tok := range tokens {
			if strings.Contains(ua, tok) {
				return true
			}
		}
		return false
	}
}

func without(match func(string) bool, excluded string) func(string) bool {
	return func(ua string) bool {
		return match(ua) && !strings.Contains(ua, excluded)
	}
}

// Правила проверяются сверху вниз по строке в нижнем регистре, побеждает первое совпадение.
// Более специфичные шаблоны стоят раньше общих.
var deviceRules = []rule{
	{match: allOf("iphone"), label: "iPhone"},
	{match: allOf("ipad"), label: "iPad"},
	{match: allOf("android", "mobile"), label: "Android Phone"},
	{match: allOf("android"), label: "Android Tablet"},
	{match: allOf("macintosh"), label: "Mac"},
	{match: allOf("windows"), label: "Windows PC"},
	{match: allOf("linux"), label: "Linux"},
	{match: func(string) bool { return true }, label: "Desktop"},
}

// Edge (Chromium "Edg/" и EdgeHTML "Edge/") и Opera несут токен Chrome, поэтому стоят раньше него.
var browserRules = []rule{
	{match: anyOf("edg/", "edge/"), label: "Edge"},
	{match: anyOf("opr/", "opera"), label: "Opera"},
	{match: without(allOf("chrome"), "chromium"), label: "Chrome"},
	{match: without(allOf("safari"), "chrome"), label: "Safari"},
	{match: allOf("firefox"), label: "Firefox"},
}

func firstMatch(rules []rule, ua string) string {
	for _, r := range rules {
		if r.match(ua) {
			return r.label
		}
	}
	return unknown
}

// Classify определяет тип устройства и браузер по строке User-Agent.
func Classify(raw string) Device {
	if strings.TrimSpace(raw) == "" {
		return Device{Kind: unknown, Browser: unknown}
	}
	ua := strings.ToLower(raw)
	return Device{
		Kind:    firstMatch(deviceRules, ua),
		Browser: firstMatch(browserRules, ua),
	}
}

// String возвращает метку вида "iPhone / Safari".
func (d Device) String() string {
	return d.Kind + " / " + d.Browser
}
