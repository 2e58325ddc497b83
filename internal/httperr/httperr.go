package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HTTPError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

// InvalidRequest reports a binding/validation failure; it never reaches the
// use case layer.
func InvalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, HTTPError{
		Code:    "invalid_request",
		Message: "Dados inválidos.",
		Details: err.Error(),
	})
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

// Respond renders err. Business errors map to their status and message;
// anything else is logged and answered with a generic 500.
func Respond(c *gin.Context, log *zap.Logger, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		Write(c, StatusFor(be.Kind), be.Code, MessageFor(be.Code))
		return
	}

	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	Internal(c, "internal_error", "Erro interno. Tente novamente mais tarde.")
}

func StatusFor(k Kind) int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindBusiness:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

var messages = map[string]string{
	"unauthenticated":              "Sessão não encontrada. Faça login novamente.",
	"forbidden":                    "Você não tem permissão para esta operação.",
	"pet_not_found":                "Pet não encontrado.",
	"doctor_not_found":             "Veterinário não encontrado.",
	"clinic_not_found":             "Clínica não encontrada.",
	"appointment_not_found":        "Agendamento não encontrado.",
	"plan_not_found":               "Plano não encontrado.",
	"subscription_not_found":       "Assinatura não encontrada.",
	"slot_taken":                   "Já existe um agendamento para este veterinário neste horário.",
	"doctor_unavailable_on_date":   "O veterinário não atende nesta data.",
	"time_outside_availability":    "Horário fora da disponibilidade do veterinário.",
	"invalid_status":               "Status inválido.",
	"invalid_status_transition":    "Não é possível alterar o status deste agendamento.",
	"invalid_week_day":             "Dia da semana inválido.",
	"invalid_time_window":          "O horário inicial deve ser anterior ao horário final.",
	"invalid_date":                 "Data inválida.",
	"invalid_time":                 "Horário inválido.",
	"invalid_price":                "Preço inválido.",
	"invalid_id":                   "Identificador inválido.",
	"doctor_has_appointments":      "O veterinário possui agendamentos e não pode ser removido.",
	"doctor_limit_reached":         "Limite de veterinários do plano atingido.",
	"role_not_allowed":             "Perfil sem acesso a esta operação.",
	"payment_provider_unavailable": "Pagamentos indisponíveis no momento.",
	"subscription_already_active":  "A clínica já possui uma assinatura ativa.",
	"photo_too_large":              "A foto excede o tamanho máximo permitido.",
	"unsupported_image":            "Formato de imagem não suportado.",
	"invalid_name":                 "Nome inválido.",
	"invalid_timezone":             "Fuso horário inválido.",
	"email_already_registered":     "Já existe uma conta com este e-mail.",
	"invalid_email_domain":         "O domínio do e-mail informado não parece ser válido.",
	"invalid_credentials":          "E-mail ou senha inválidos.",
	"clinic_required":              "Informe os dados da clínica.",
	"pet_code_exhausted":           "Não foi possível gerar um código para o pet. Tente novamente.",
	"storage_unavailable":          "Upload de fotos indisponível no momento.",
}

func MessageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return "Não foi possível concluir a operação."
}
