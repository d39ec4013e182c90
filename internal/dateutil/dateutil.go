package dateutil

import (
	"fmt"
	"regexp"
	"time"
)

// CalendarDate календарная дата без времени и часового пояса
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// Принимаемые форматы дат. Источники разные (API, документы из базы,
// ручной ввод), поэтому порядок и пробелы плавают.
var (
	dottedPattern  = regexp.MustCompile(`^\s*(\d{4})\.\s*(\d{1,2})\.\s*(\d{1,2})\.?\s*$`)
	dashedPattern  = regexp.MustCompile(`^\s*(\d{4})[-/](\d{1,2})[-/](\d{1,2})\s*$`)
	compactPattern = regexp.MustCompile(`^\s*(\d{4})(\d{2})(\d{2})\s*$`)
)

// Parse разбирает строку даты в одном из четырёх принимаемых форматов:
// "YYYY. M. D." (точка в конце и лишние пробелы опциональны), "YYYY-M-D",
// "YYYY/MM/DD" и компактный "YYYYMMDD". Возвращает ok=false если строка
// не подошла ни под один формат или дата календарно невалидна.
func Parse(raw string) (CalendarDate, bool) {
	for _, pattern := range []*regexp.Regexp{dottedPattern, dashedPattern, compactPattern} {
		m := pattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		d := CalendarDate{
			Year:  atoi(m[1]),
			Month: atoi(m[2]),
			Day:   atoi(m[3]),
		}
		if !d.valid() {
			return CalendarDate{}, false
		}
		return d, true
	}
	return CalendarDate{}, false
}

// Normalize приводит строку даты к каноническому виду "YYYY. MM. DD.".
// Только канонические строки сохраняются и сравниваются между собой.
func Normalize(raw string) (string, bool) {
	d, ok := Parse(raw)
	if !ok {
		return "", false
	}
	return d.Format(), true
}

// Format сериализует дату в канонический вид "YYYY. MM. DD."
// (двузначные месяц и день, точка в конце обязательна)
func (d CalendarDate) Format() string {
	return fmt.Sprintf("%04d. %02d. %02d.", d.Year, d.Month, d.Day)
}

// YYYYMM возвращает ключ месяца вида "202504"
func (d CalendarDate) YYYYMM() string {
	return fmt.Sprintf("%04d%02d", d.Year, d.Month)
}

// Time возвращает дату как time.Time (полночь UTC)
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// FromTime переводит time.Time обратно в календарную дату
func FromTime(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// SameMonth проверяет что обе даты попадают в один календарный месяц
func (d CalendarDate) SameMonth(other CalendarDate) bool {
	return d.Year == other.Year && d.Month == other.Month
}

// Before возвращает true если d строго раньше other
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.Compare(other) < 0
}

// Compare сравнивает даты: -1, 0 или 1
func (d CalendarDate) Compare(other CalendarDate) int {
	a := d.Year*10000 + d.Month*100 + d.Day
	b := other.Year*10000 + other.Month*100 + other.Day
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// AddMonths сдвигает дату на n месяцев вперёд (день нормализуется к первому числу,
// используется только для вычисления соседних месяцев)
func (d CalendarDate) AddMonths(n int) CalendarDate {
	t := time.Date(d.Year, time.Month(d.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return CalendarDate{Year: t.Year(), Month: int(t.Month()), Day: 1}
}

// valid проверяет календарную валидность через round-trip time.Date
// (отсекает месяц 13, 30 февраля и т.п.)
func (d CalendarDate) valid() bool {
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return false
	}
	t := d.Time()
	return t.Year() == d.Year && int(t.Month()) == d.Month && t.Day() == d.Day
}

// atoi парсит заведомо числовую подстроку из регулярки
func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
