// Package access реализует политику доступа сервиса.
//
// Роль пользователя разбирается один раз на запрос из JWT claims и далее
// передаётся через контекст; все решения о доступе — чистые функции от
// (роль, действие), без обращений к хранилищу.
package access

import "errors"

// ErrForbidden возвращается сервисами, когда действие запрещено политикой.
// Обработчики транслируют её в HTTP 403.
var ErrForbidden = errors.New("forbidden")

// Role — роль пользователя в системе.
type Role string

const (
	// RoleUser — обычный пользователь.
	RoleUser Role = "user"
	// RoleModerator — модератор: управляет контентом, но не создает его.
	RoleModerator Role = "moderator"
	// RoleAdmin — администратор.
	RoleAdmin Role = "admin"
)

// ParseRole разбирает строку роли из claims. Неизвестная роль сводится
// к обычному пользователю: политика сужает доступ, а не расширяет.
func ParseRole(s string) Role {
	switch s {
	case string(RoleModerator):
		return RoleModerator
	case string(RoleAdmin):
		return RoleAdmin
	default:
		return RoleUser
	}
}

// Staff сообщает, имеет ли роль расширенные права просмотра (модератор или админ).
func (r Role) Staff() bool {
	return r == RoleModerator || r == RoleAdmin
}

// CanCreateContent разрешает создание курсов и уроков.
// Модераторы управляют контентом, но не являются его авторами.
func (r Role) CanCreateContent() bool {
	return r != RoleModerator
}

// CanViewContent разрешает просмотр и редактирование курса или урока:
// владелец, модератор или админ.
func (r Role) CanViewContent(isOwner bool) bool {
	return isOwner || r.Staff()
}

// CanDeleteContent разрешает удаление курса или урока: только владелец или админ.
func (r Role) CanDeleteContent(isOwner bool) bool {
	return isOwner || r == RoleAdmin
}

// CanManageSubscriptions разрешает создание, изменение и удаление подписок.
// Обычные пользователи не подписываются сами через этот путь.
func (r Role) CanManageSubscriptions() bool {
	return r.Staff()
}

// CanManagePayments разрешает изменение и удаление платежей.
func (r Role) CanManagePayments() bool {
	return r.Staff()
}

// CanDeleteUser разрешает удаление учетной записи: сам пользователь или админ.
func (r Role) CanDeleteUser(isSelf bool) bool {
	return isSelf || r == RoleAdmin
}

// CanUpdateUser разрешает редактирование профиля: сам пользователь,
// модератор (только общедоступные поля) или админ.
func (r Role) CanUpdateUser(isSelf bool) bool {
	return isSelf || r.Staff()
}

// ProfileView — набор полей профиля, видимый запрашивающему.
type ProfileView int

const (
	// PublicProfile — сокращенный набор: id, email, username, first_name, country, avatar.
	PublicProfile ProfileView = iota
	// FullProfile — полный набор, включая телефон, фамилию и историю платежей.
	FullProfile
)

// UserProfileView возвращает набор полей профиля для запрашивающего.
// Полный набор доступен только самому пользователю и админу; модератору
// конфиденциальные поля не показываются и не принимаются на запись.
func UserProfileView(r Role, isSelf bool) ProfileView {
	if isSelf || r == RoleAdmin {
		return FullProfile
	}
	return PublicProfile
}
