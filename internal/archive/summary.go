package archive

import (
	"strconv"
	"time"
)

// SummaryHeaders 运行摘要表的列
var SummaryHeaders = []string{"Run", "Venue", "Year", "Found", "Existing", "Duplicate", "Downloaded", "Recorded", "Failed", "Elapsed"}

// Row 运行摘要的一行，与 SummaryHeaders 对应
func (s *Stats) Row() []string {
	run := s.RunID
	if len(run) > 8 {
		run = run[:8]
	}
	if s.Interrupted {
		run += "*"
	}
	return []string{
		run,
		s.Venue,
		strconv.Itoa(s.Year),
		strconv.Itoa(s.Found),
		strconv.Itoa(s.SkippedExisting),
		strconv.Itoa(s.SkippedDuplicate),
		strconv.Itoa(s.Downloaded),
		strconv.Itoa(s.Recorded),
		strconv.Itoa(s.Failed),
		s.Elapsed.Round(time.Millisecond).String(),
	}
}
