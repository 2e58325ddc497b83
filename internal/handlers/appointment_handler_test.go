package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/vetclinic-api/internal/dto"
	"github.com/BruksfildServices01/vetclinic-api/internal/httperr"
	"github.com/BruksfildServices01/vetclinic-api/internal/metrics"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/session"
	"github.com/BruksfildServices01/vetclinic-api/internal/usecase/appointment"
)

type createStub struct {
	calls int
	got   appointment.CreateAppointmentInput
	err   error
}

func (s *createStub) Execute(_ context.Context, in appointment.CreateAppointmentInput) (*models.Appointment, error) {
	s.calls++
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &models.Appointment{ID: uuid.New(), AppointmentTime: in.Time}, nil
}

type cancelStub struct{ err error }

func (s cancelStub) Execute(context.Context, uuid.UUID, uuid.UUID, *session.Session) error {
	return s.err
}

type statusStub struct {
	calls int
	err   error
}

func (s *statusStub) Execute(context.Context, uuid.UUID, string, *session.Session) error {
	s.calls++
	return s.err
}

type agendaStub struct{ date string }

func (s *agendaStub) Execute(_ context.Context, _ *session.Session, _ uuid.UUID, date string) ([]dto.AppointmentListDTO, error) {
	s.date = date
	return []dto.AppointmentListDTO{{PetCode: "123456"}}, nil
}

type monthStub struct{ year, month int }

func (s *monthStub) Execute(_ context.Context, _ *session.Session, _ uuid.UUID, year, month int) ([]dto.AppointmentListDTO, error) {
	s.year, s.month = year, month
	return []dto.AppointmentListDTO{}, nil
}

type appointmentRig struct {
	router  *gin.Engine
	create  *createStub
	cancel  *cancelStub
	status  *statusStub
	byDate  *agendaStub
	byMonth *monthStub
}

func newAppointmentRig() *appointmentRig {
	rig := &appointmentRig{
		create:  &createStub{},
		cancel:  &cancelStub{},
		status:  &statusStub{},
		byDate:  &agendaStub{},
		byMonth: &monthStub{},
	}

	h := NewAppointmentHandler(rig.create, rig.cancel, rig.status, rig.byDate, rig.byMonth, metrics.NewCollector(), zap.NewNop())

	r := gin.New()
	r.POST("/appointments", h.Create)
	r.DELETE("/clinics/:clinicId/appointments/:id", h.Cancel)
	r.PATCH("/appointments/:id/status", h.UpdateStatus)
	r.GET("/clinics/:clinicId/appointments", h.ListByClinic)
	rig.router = r
	return rig
}

func validCreateBody() map[string]any {
	return map[string]any{
		"pet_code":         "123456",
		"doctor_id":        uuid.NewString(),
		"appointment_date": "2030-01-07",
		"appointment_time": "09:30",
		"price_in_cents":   15000,
	}
}

func TestCreateAppointmentHandler(t *testing.T) {
	rig := newAppointmentRig()

	w := doJSON(rig.router, http.MethodPost, "/appointments", validCreateBody())

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])
	assert.Equal(t, 1, rig.create.calls)
	assert.Equal(t, "09:30", rig.create.got.Time)
	assert.Equal(t, int64(15000), rig.create.got.PriceInCents)
	assert.Nil(t, rig.create.got.Session)
}

func TestCreateAppointmentHandlerRejectsMalformedInput(t *testing.T) {
	cases := map[string]func(b map[string]any){
		"missing price":  func(b map[string]any) { delete(b, "price_in_cents") },
		"negative price": func(b map[string]any) { b["price_in_cents"] = -1 },
		"impossible day": func(b map[string]any) { b["appointment_date"] = "2030-02-30" },
		"bad time":       func(b map[string]any) { b["appointment_time"] = "25:00" },
		"bad doctor id":  func(b map[string]any) { b["doctor_id"] = "42" },
		"blank pet code": func(b map[string]any) { b["pet_code"] = "   " },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rig := newAppointmentRig()
			body := validCreateBody()
			mutate(body)

			w := doJSON(rig.router, http.MethodPost, "/appointments", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "invalid_request", decode(t, w)["error"])
			assert.Zero(t, rig.create.calls)
		})
	}
}

func TestCreateAppointmentHandlerMapsUseCaseErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{httperr.ErrSlotTaken, http.StatusConflict, "slot_taken"},
		{httperr.ErrUnauthenticated(), http.StatusUnauthorized, "unauthenticated"},
		{httperr.ErrForbidden(), http.StatusForbidden, "forbidden"},
		{httperr.ErrNotFound("pet"), http.StatusNotFound, "pet_not_found"},
		{httperr.ErrBusiness("time_outside_availability"), http.StatusUnprocessableEntity, "time_outside_availability"},
		{assert.AnError, http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rig := newAppointmentRig()
			rig.create.err = tc.err

			w := doJSON(rig.router, http.MethodPost, "/appointments", validCreateBody())

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decode(t, w)["error"])
		})
	}
}

func TestCancelAppointmentHandler(t *testing.T) {
	rig := newAppointmentRig()

	w := doJSON(rig.router, http.MethodDelete, "/clinics/not-a-uuid/appointments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", decode(t, w)["error"])

	rig.cancel.err = httperr.ErrNotFound("appointment")
	w = doJSON(rig.router, http.MethodDelete, "/clinics/"+uuid.NewString()+"/appointments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "appointment_not_found", decode(t, w)["error"])

	rig.cancel.err = nil
	w = doJSON(rig.router, http.MethodDelete, "/clinics/"+uuid.NewString()+"/appointments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateStatusHandler(t *testing.T) {
	rig := newAppointmentRig()
	path := "/appointments/" + uuid.NewString() + "/status"

	w := doJSON(rig.router, http.MethodPatch, path, map[string]string{"status": "CANCELADO"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, rig.status.calls)

	rig.status.err = httperr.ErrBusiness("invalid_status_transition")
	w = doJSON(rig.router, http.MethodPatch, path, map[string]string{"status": "AGENDADO"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	rig.status.err = nil
	w = doJSON(rig.router, http.MethodPatch, path, map[string]string{"status": "CONCLUIDO"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, rig.status.calls)
}

func TestListByClinicHandler(t *testing.T) {
	rig := newAppointmentRig()
	base := "/clinics/" + uuid.NewString() + "/appointments"

	w := doJSON(rig.router, http.MethodGet, base+"?date=2030-01-07", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2030-01-07", rig.byDate.date)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = doJSON(rig.router, http.MethodGet, base+"?year=2030&month=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2030, rig.byMonth.year)
	assert.Equal(t, 1, rig.byMonth.month)

	for _, q := range []string{"", "?year=2030", "?year=abc&month=1"} {
		w = doJSON(rig.router, http.MethodGet, base+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.Equal(t, "invalid_date", decode(t, w)["error"], q)
	}
}
