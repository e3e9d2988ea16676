package entity

// Session token opaco más el perfil que lo emitió. Existe completa o no existe.
type Session struct {
	Token string
	User  UserProfile
}

// Complete informa si la sesión tiene token y perfil; una sesión parcial se trata como ausente.
func (s *Session) Complete() bool {
	return s != nil && s.Token != "" && s.User.EmployeeID != ""
}
