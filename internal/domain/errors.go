// Package domain содержит общие ошибки бизнес-уровня. Обработчики HTTP сопоставляют их
// с кодами ответа через errors.Is, поэтому адаптеры хранилища и сервисы оборачивают именно их.
package domain

import "errors"

var (
	// ErrValidation отсутствующие или некорректные входные данные (400).
	ErrValidation = errors.New("validation error")
	// ErrUnauthenticated сессия отсутствует, истекла или не разрешается в пользователя (401).
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden пользователь аутентифицирован, но прав недостаточно (403).
	ErrForbidden = errors.New("access denied")
	// ErrNotFound запрошенная запись не существует (404).
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists нарушение уникальности, например email уже занят.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials скрывает, что именно не совпало: email или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSignatureMismatch подпись уведомления платёжного шлюза не совпала (400).
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrAlreadyFinalized заказ уже не в статусе pending. Это не ошибка для вызывающего кода,
	// а признак повторной доставки уведомления.
	ErrAlreadyFinalized = errors.New("order already finalized")
)
