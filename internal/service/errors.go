package service

import "errors"

var (
	// ErrInvalidDate строка даты не подошла ни под один принимаемый формат
	ErrInvalidDate = errors.New("invalid date")

	// ErrNoAvailableRoom на запрошенные дату и час нет свободной комнаты
	ErrNoAvailableRoom = errors.New("no available room")

	// ErrUnknownStage имя этапа не канонизируется ни в один из четырёх
	ErrUnknownStage = errors.New("unknown confirmation stage")

	// ErrUnknownMode неизвестный режим расчёта
	ErrUnknownMode = errors.New("unknown settlement mode")
)
