package ui

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CountDuration is how long a count-up animation runs.
const CountDuration = 2 * time.Second

var metricPattern = regexp.MustCompile(`^(\D*)([\d,]+)(.*)$`)

// Metric is a display value split around its numeric part, e.g. "$2,500+" -> "$", 2500, "+".
type Metric struct {
	Raw        string
	Prefix     string
	Target     int64
	Suffix     string
	Animatable bool
	grouped    bool
}

// ParseMetric splits value into prefix, integer target and suffix. Values without a
// leading integer (after a non-digit prefix) are not animatable.
func ParseMetric(value string) Metric {
	m := Metric{Raw: value}
	parts := metricPattern.FindStringSubmatch(value)
	if parts == nil {
		return m
	}
	digits := strings.ReplaceAll(parts[2], ",", "")
	if digits == "" {
		return m
	}
	target, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return m
	}
	m.Prefix = parts[1]
	m.Target = target
	m.Suffix = parts[3]
	m.Animatable = true
	m.grouped = strings.Contains(parts[2], ",")
	return m
}

// Format renders n with the metric's prefix, suffix and digit grouping.
func (m Metric) Format(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if m.grouped {
		digits = groupThousands(digits)
	}
	return m.Prefix + digits + m.Suffix
}

// CountUp animates a metric from zero to its target once triggered.
type CountUp struct {
	metric    Metric
	animated  bool
	triggered bool
}

func NewCountUp(value string, animated bool) *CountUp {
	return &CountUp{metric: ParseMetric(value), animated: animated}
}

// Animates reports whether intermediate frames exist at all.
func (c *CountUp) Animates() bool {
	return c.animated && c.metric.Animatable
}

func (c *CountUp) Metric() Metric {
	return c.metric
}

// Trigger starts the animation. Only the first call has an effect; it reports whether it did.
func (c *CountUp) Trigger() bool {
	if c.triggered {
		return false
	}
	c.triggered = true
	return true
}

func (c *CountUp) Triggered() bool {
	return c.triggered
}

// Initial is the text shown before the animation is triggered.
func (c *CountUp) Initial() string {
	if !c.Animates() {
		return c.metric.Raw
	}
	return c.metric.Format(0)
}

// Frame returns the text to display elapsed time after the trigger.
func (c *CountUp) Frame(elapsed time.Duration) string {
	if !c.Animates() {
		return c.metric.Raw
	}
	if !c.triggered {
		return c.Initial()
	}
	if elapsed >= CountDuration {
		return c.metric.Raw
	}
	if elapsed < 0 {
		elapsed = 0
	}
	progress := float64(elapsed) / float64(CountDuration)
	current := int64(math.Floor(easeOutQuart(progress) * float64(c.metric.Target)))
	return c.metric.Format(current)
}

func easeOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
