package weibo

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/weibolens/weibolens/internal/domain/model"
)

var sourceZone = model.SourceZone

var (
	minutesAgoPattern = regexp.MustCompile(`^(\d+)分钟前$`)
	hoursAgoPattern   = regexp.MustCompile(`^(\d+)小时前$`)
	monthDayPattern   = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})(\s.*)?$`)
	fullDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
)

// normalizeCreatedAt turns the platform's mixed date formats (relative
// Chinese forms, month-day shorthand, full dates, the long +0800 form)
// into a concrete time. The second return is false when the raw value is
// unrecognized; callers keep the post but drop it from the time series.
func normalizeCreatedAt(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	now = now.In(sourceZone)

	switch {
	case strings.HasPrefix(raw, "刚刚"):
		return now, true
	case strings.HasSuffix(raw, "分钟前"):
		m := minutesAgoPattern.FindStringSubmatch(raw)
		if m == nil {
			return time.Time{}, false
		}
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * time.Minute), true
	case strings.HasSuffix(raw, "小时前"):
		m := hoursAgoPattern.FindStringSubmatch(raw)
		if m == nil {
			return time.Time{}, false
		}
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * time.Hour), true
	case strings.HasPrefix(raw, "昨天"):
		return now.AddDate(0, 0, -1), true
	}

	if m := fullDatePattern.FindStringSubmatch(raw); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, sourceZone), true
	}

	if m := monthDayPattern.FindStringSubmatch(raw); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, sourceZone), true
	}

	// Long form, e.g. "Tue May 02 10:15:00 +0800 2023".
	if t, err := time.Parse("Mon Jan 02 15:04:05 -0700 2006", raw); err == nil {
		return t.In(sourceZone), true
	}

	return time.Time{}, false
}
