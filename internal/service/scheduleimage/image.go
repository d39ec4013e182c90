// Package scheduleimage рисует недельную сетку занятий по комнатам в PNG
// для вставки в дэшборд и рассылки.
package scheduleimage

import (
	"bytes"
	"image/color"
	"time"

	"github.com/Edu-Form/fluent-portal/internal/dateutil"
	"github.com/Edu-Form/fluent-portal/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	legendWidth     = 160
	dayPaddingX     = 8
	entryRadius     = 6.0
	totalDaysInWeek = 7
	hourPaddingTop  = 2
	hourPaddingBot  = 2
	defaultMinHour  = 9
	defaultMaxHour  = 22
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 125}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}
	entryTextColor = color.RGBA{20, 24, 28, 230}

	// палитра блоков по комнатам, выбирается по индексу комнаты в ростере
	roomPalette = []color.RGBA{
		{133, 193, 85, 220},
		{255, 182, 193, 255},
		{120, 170, 220, 220},
		{240, 200, 110, 230},
		{180, 150, 210, 220},
		{150, 200, 190, 220},
	}
)

// weekBounds границы недели
type weekBounds struct {
	start time.Time
	end   time.Time
}

// hourRange диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// GenerateWeekImage генерирует изображение недели с занятиями по комнатам.
// rooms задаёт порядок легенды и цвета; entries с нечитаемыми датами
// пропускаются.
func GenerateWeekImage(startDate dateutil.CalendarDate, entries []*model.ScheduleEntry, rooms []*model.Room) ([]byte, error) {
	week := normalizeToWeekBounds(startDate.Time())
	today := normalizeToDay(time.Now().UTC())
	highlightToday := isTodayInWeek(today, week)

	entriesByDay := groupEntriesByDay(entries)
	hours := calculateHourRange(entries)
	roomColors := assignRoomColors(rooms)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)
	drawDaysAndEntries(dc, week, today, highlightToday, entriesByDay, hours, dayWidth, dayHeight, cellHeight, roomColors)
	drawLegend(dc, rooms, roomColors)

	return encodeImage(dc)
}

// WeekRange возвращает границы недели (Пн-Вс), в которую попадает дата.
// Именно за этот диапазон и нужно загружать записи: картинка рисует его
// целиком, независимо от того, с какого дня недели начали.
func WeekRange(start dateutil.CalendarDate) (dateutil.CalendarDate, dateutil.CalendarDate) {
	week := normalizeToWeekBounds(start.Time())
	return dateutil.FromTime(week.start), dateutil.FromTime(week.end)
}

// normalizeToWeekBounds нормализует дату к границам недели (Пн-Вс)
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 6)

	return weekBounds{start: start, end: end}
}

// normalizeToDay нормализует время к началу дня
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isTodayInWeek проверяет, попадает ли сегодня в отображаемую неделю
func isTodayInWeek(today time.Time, week weekBounds) bool {
	return !today.Before(week.start) && !today.After(week.end)
}

// groupEntriesByDay группирует занятия по каноническим датам
func groupEntriesByDay(entries []*model.ScheduleEntry) map[string][]*model.ScheduleEntry {
	byDay := make(map[string][]*model.ScheduleEntry)
	for _, entry := range entries {
		d, ok := dateutil.Parse(entry.Date)
		if !ok {
			continue
		}
		key := d.Format()
		byDay[key] = append(byDay[key], entry)
	}
	return byDay
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(entries []*model.ScheduleEntry) hourRange {
	minHour := 24
	maxHour := 0

	for _, entry := range entries {
		endH := entry.Hour + entry.DurationHours
		if entry.Hour < minHour {
			minHour = entry.Hour
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

// assignRoomColors раздаёт комнатам цвета из палитры в порядке ростера
func assignRoomColors(rooms []*model.Room) map[string]color.RGBA {
	colors := make(map[string]color.RGBA, len(rooms))
	for i, room := range rooms {
		colors[room.Name] = roomPalette[i%len(roomPalette)]
	}
	return colors
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с границами недели
func drawHeader(dc *gg.Context, week weekBounds) {
	title := week.start.Format("2006. 01. 02.") + " - " + week.end.Format("2006. 01. 02.")

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/2, 0.5, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		actualHour := hours.start + hIdx
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := formatHourLabel(actualHour)
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDaysAndEntries рисует все дни недели с занятиями
func drawDaysAndEntries(dc *gg.Context, week weekBounds, today time.Time, highlightToday bool,
	entriesByDay map[string][]*model.ScheduleEntry, hours hourRange, dayWidth, dayHeight int,
	cellHeight float64, roomColors map[string]color.RGBA) {

	currentDate := week.start

	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)

		// фон колонки: чередование, сегодняшний день подсвечивается
		switch {
		case highlightToday && currentDate.Equal(today):
			dc.SetColor(todayBgColor)
		case dayIndex%2 == 0:
			dc.SetColor(evenDayColor)
		default:
			dc.SetColor(oddDayColor)
		}
		dc.DrawRectangle(x, float64(headerHeight), float64(dayWidth), float64(dayHeight))
		dc.Fill()

		// подпись дня
		dc.SetColor(textColor)
		label := currentDate.Format("Mon 02")
		dc.DrawStringAnchored(label, x+float64(dayWidth)/2, float64(headerHeight)-14, 0.5, 0.5)

		// горизонтальные линии часов
		dc.SetColor(hourLineColor)
		for hIdx := 0; hIdx <= hours.total; hIdx++ {
			y := float64(headerHeight) + float64(hIdx)*cellHeight
			dc.DrawLine(x, y, x+float64(dayWidth), y)
			dc.Stroke()
		}

		// блоки занятий
		key := dateutil.CalendarDate{
			Year:  currentDate.Year(),
			Month: int(currentDate.Month()),
			Day:   currentDate.Day(),
		}.Format()
		for _, entry := range entriesByDay[key] {
			drawEntry(dc, entry, x, hours, dayWidth, cellHeight, roomColors)
		}

		currentDate = currentDate.AddDate(0, 0, 1)
	}
}

// drawEntry рисует один блок занятия
func drawEntry(dc *gg.Context, entry *model.ScheduleEntry, dayX float64, hours hourRange,
	dayWidth int, cellHeight float64, roomColors map[string]color.RGBA) {

	if entry.Hour+entry.DurationHours <= hours.start || entry.Hour > hours.end {
		return
	}

	y := float64(headerHeight) + float64(entry.Hour-hours.start)*cellHeight
	h := float64(entry.DurationHours) * cellHeight

	blockColor, ok := roomColors[entry.RoomName]
	if !ok {
		blockColor = roomPalette[len(roomPalette)-1]
	}

	dc.SetColor(blockColor)
	dc.DrawRoundedRectangle(dayX+dayPaddingX, y+2, float64(dayWidth)-2*dayPaddingX, h-4, entryRadius)
	dc.Fill()

	dc.SetColor(entryTextColor)
	label := entry.RoomName + " · " + entry.StudentName
	dc.DrawStringAnchored(label, dayX+float64(dayWidth)/2, y+h/2, 0.5, 0.5)
}

// drawLegend рисует легенду комнат справа
func drawLegend(dc *gg.Context, rooms []*model.Room, roomColors map[string]color.RGBA) {
	x := float64(imageWidth - legendWidth + 10)
	y := float64(headerHeight)

	dc.SetColor(textColor)
	dc.DrawString("Rooms", x, y)

	for i, room := range rooms {
		itemY := y + 20 + float64(i)*22
		dc.SetColor(roomColors[room.Name])
		dc.DrawRoundedRectangle(x, itemY-8, 14, 14, 3)
		dc.Fill()
		dc.SetColor(textColor)
		dc.DrawString(room.Name, x+22, itemY+4)
	}
}

// formatHourLabel форматирует подпись часа
func formatHourLabel(hour int) string {
	return time.Date(0, 1, 1, hour, 0, 0, 0, time.UTC).Format("15:04")
}

// encodeImage кодирует холст в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
