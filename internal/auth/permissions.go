package auth

import "accounts_backend/internal/models"

// Operation - операция управления пользователями, проходящая через политику
type Operation string

const (
	OpCreateUser Operation = "CREATE_USER"
	OpReadUser   Operation = "READ_USER"
	OpUpdateUser Operation = "UPDATE_USER"
	OpDeleteUser Operation = "DELETE_USER"
	OpListUsers  Operation = "LIST_USERS"
)

func AllOperations() []Operation {
	return []Operation{OpCreateUser, OpReadUser, OpUpdateUser, OpDeleteUser, OpListUsers}
}

type Decision bool

const (
	Allowed Decision = true
	Denied  Decision = false
)

func (d Decision) String() string {
	if d {
		return "allowed"
	}
	return "denied"
}

// matrix - матрица доступа. Отсутствующая запись означает запрет.
// Роль либо допущена к операции над любой целью, либо нет.
var matrix = map[Operation]map[models.UserRole]bool{
	OpCreateUser: {models.UserRoleAdmin: true, models.UserRoleManager: true},
	OpReadUser:   {models.UserRoleAdmin: true, models.UserRoleManager: true},
	OpUpdateUser: {models.UserRoleAdmin: true, models.UserRoleManager: true},
	OpDeleteUser: {models.UserRoleAdmin: true, models.UserRoleManager: true},
	OpListUsers:  {models.UserRoleAdmin: true, models.UserRoleManager: true},
}

// Authorize решает, может ли вызывающий с ролью role выполнить op над targetID.
// Совпадение targetID с callerID прав не дает: AUTHENTICATED запрещено все,
// в том числе над собой.
func Authorize(role models.UserRole, callerID string, op Operation, targetID string) Decision {
	return Decision(matrix[op][role])
}

// HasPermission проверяет, есть ли у роли доступ к операции
func HasPermission(role models.UserRole, op Operation) bool {
	return matrix[op][role]
}
