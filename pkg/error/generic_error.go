package error

// GenericError es implementado por todos los errores tipados que viajan hasta la capa HTTP
type GenericError interface {
	Error() string
	ErrCode() string
	StatusCode() int
}
