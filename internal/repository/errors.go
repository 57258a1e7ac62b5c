package repository

import "errors"

// ErrNotFound возвращается хранилищем, когда задачи с таким ID нет.
var ErrNotFound = errors.New("задача не найдена")

// ErrDuplicateID возвращается при попытке восстановить снапшот
// с повторяющимися идентификаторами.
var ErrDuplicateID = errors.New("повторяющийся идентификатор задачи")
