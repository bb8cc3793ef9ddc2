// Ошибки, общие для ядра и бота.
// Ошибки ядра (формат, неизменяемость, диапазон, аргументы, типы) сигнализируют
// об ошибке вызывающего кода или входных данных, поэтому никогда не повторяются
// внутри и всегда возвращаются наверх. Обработчики бота различают их через errors.Is.

package common

import "errors"

// Ошибки ядра работы со временем
var (
	// ErrFormat: строку нельзя интерпретировать как момент календаря
	ErrFormat = errors.New("неверный формат даты/времени")
	// ErrImmutableState: попытка изменить временную метку, помеченную как неизменяемая
	ErrImmutableState = errors.New("временную метку нельзя менять, сначала клонируйте её")
	// ErrRange: число вне допустимых границ (например, номер недели > 53)
	ErrRange = errors.New("значение вне допустимого диапазона")
	// ErrInvalidArgument: аргумент неверной формы (например, не 3 формы слова)
	ErrInvalidArgument = errors.New("неверное значение аргумента")
	// ErrType: операнд нельзя привести к временной метке
	ErrType = errors.New("неверный тип операнда")
)

// Ошибки событий
var (
	// ErrEventNotFound: событие не найдено или принадлежит другому пользователю
	ErrEventNotFound = errors.New("событие не найдено")
	// ErrEventInPast: событие нельзя создать в прошлом
	ErrEventInPast = errors.New("событие уже прошло, укажите время в будущем")
	// ErrEventTitleTooLong: название длиннее 200 символов
	ErrEventTitleTooLong = errors.New("название слишком длинное (максимум 200 символов)")
	// ErrTooManyEvents: превышен лимит активных событий пользователя
	ErrTooManyEvents = errors.New("слишком много событий, удалите старые")
)

// Ошибки участников
var (
	// ErrUserNotFound: пользователь не найден в базе
	ErrUserNotFound = errors.New("пользователь не найден")
	// ErrUnknownTimezone: неизвестный часовой пояс
	ErrUnknownTimezone = errors.New("неизвестный часовой пояс")
)

// Ошибки админки
var (
	// ErrNotAdmin: пользователь не является администратором
	ErrNotAdmin = errors.New("у вас нет прав администратора")
	// ErrWrongPassword: неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts: слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
	// ErrSessionExpired: сессия истекла
	ErrSessionExpired = errors.New("сессия истекла, авторизуйтесь заново")
)
