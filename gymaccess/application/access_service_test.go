package application

import (
	"context"
	"strings"
	"testing"
	"time"

	clientsDomain "github.com/AzielCF/az-gym/clients/domain"
	"github.com/AzielCF/az-gym/gymaccess/domain"
	"github.com/AzielCF/az-gym/pkg/checks"
	rewardsDomain "github.com/AzielCF/az-gym/rewards/domain"
	schedulesDomain "github.com/AzielCF/az-gym/schedules/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engine struct {
	svc       *AccessService
	clients   *fakeClients
	records   *fakeRecords
	schedules *fakeSchedules
	rewards   *fakeRewards
	cache     *fakeGrantCache
	now       time.Time
}

// 2026-10-15 es jueves
func thursdayAt(h, m int) time.Time {
	return time.Date(2026, 10, 15, h, m, 0, 0, time.UTC)
}

func newAna() *clientsDomain.Client {
	return &clientsDomain.Client{ID: "ana-id", CI: "12345678", Name: "Ana", Photo: "ana.jpg", Plan: "Full"}
}

func newEngine(t *testing.T, withCache bool, clients ...*clientsDomain.Client) *engine {
	t.Helper()
	e := &engine{
		clients: newFakeClients(clients...),
		schedules: &fakeSchedules{slots: []schedulesDomain.Slot{
			{ID: "s7", Day: "Jueves", StartTime: "7", EndTime: "8", StartHour: 7, Clients: []string{"ana-id"}},
			{ID: "s19", Day: "Jueves", StartTime: "19:00", EndTime: "20:00", StartHour: 19, Clients: []string{"ana-id"}},
			{ID: "s20", Day: "Jueves", StartTime: "20", EndTime: "21", StartHour: 20, Clients: []string{"otro"}},
		}},
		rewards: &fakeRewards{byDays: map[int]*rewardsDomain.Reward{
			7: {Name: "Batido gratis", Description: "Una semana seguida", RequiredDays: 7},
		}},
		now: thursdayAt(19, 0),
	}
	e.records = newFakeRecords(e.clients)

	var cache domain.GrantCache
	if withCache {
		e.cache = newFakeGrantCache()
		cache = e.cache
	}

	e.svc = NewAccessService(
		e.clients,
		e.schedules,
		NewDailyGuard(e.records, cache),
		e.records,
		e.rewards,
		cache,
		AccessConfig{Location: time.UTC, EarlyAccess: DefaultEarlyAccess, LateAccess: DefaultLateAccess, Now: func() time.Time { return e.now }},
	)
	return e
}

func (e *engine) validate(cedula string) domain.AccessResponse {
	return e.svc.ValidateAccess(context.Background(), domain.AccessRequest{Cedula: cedula})
}

func TestValidateAccess_UnknownCedulaIsStableDenial(t *testing.T) {
	e := newEngine(t, false, newAna())

	first := e.validate("99999999")
	second := e.validate("99999999")

	assert.False(t, first.Authorize)
	assert.Equal(t, MsgClientNotFound, first.Message)
	assert.Equal(t, first, second)
	assert.Nil(t, first.Client)

	require.Equal(t, 2, e.records.count())
	rec := e.records.last()
	assert.Empty(t, rec.ClientID)
	assert.Equal(t, "99999999", rec.Cedula)
	assert.Equal(t, MsgClientNotFound, rec.Reason)
	assert.Nil(t, e.clients.get("99999999"), "no se crean socios")
}

func TestValidateAccess_DisabledNeverAuthorizes(t *testing.T) {
	ana := newAna()
	ana.Disabled = true
	ana.TotalAccesses = 12
	e := newEngine(t, false, ana)

	for _, at := range []time.Time{thursdayAt(19, 0), thursdayAt(7, 5), thursdayAt(12, 0)} {
		e.now = at
		resp := e.validate("12345678")
		assert.False(t, resp.Authorize)
		assert.Equal(t, MsgClientDisabled, resp.Message)
	}

	assert.Equal(t, 12, e.clients.get("12345678").TotalAccesses)
	assert.Empty(t, e.records.successful())
	assert.Equal(t, "ana-id", e.records.last().ClientID)
}

func TestValidateAccess_SuccessWritesOneRecordAndIncrementsTotal(t *testing.T) {
	ana := newAna()
	ana.TotalAccesses = 41
	e := newEngine(t, false, ana)
	e.now = thursdayAt(19, 5)

	resp := e.validate(" 12345678 ")

	require.True(t, resp.Authorize, resp.Message)
	assert.Equal(t, MsgAccessGranted, resp.Message)
	require.NotNil(t, resp.Client)
	assert.Equal(t, "Ana", resp.Client.Name)
	assert.Equal(t, "ana.jpg", resp.Client.Photo)
	assert.Equal(t, "Full", resp.Client.Plan)
	assert.Equal(t, 42, resp.Client.TotalAccesses)
	assert.Nil(t, resp.Reward)

	granted := e.records.successful()
	require.Len(t, granted, 1)
	assert.Equal(t, "s19", granted[0].ScheduleID)
	assert.Equal(t, "19:00", granted[0].ScheduleStartTime)
	assert.Equal(t, "20:00", granted[0].ScheduleEndTime)
	assert.Equal(t, "Ana", granted[0].ClientName)
	assert.Equal(t, "ana.jpg", granted[0].ClientPhoto)
	assert.Equal(t, "2026-10-15", granted[0].AccessDay)
	assert.Equal(t, 1, e.records.count())
	assert.Equal(t, 42, e.clients.get("12345678").TotalAccesses)
}

func TestValidateAccess_StreakLaw(t *testing.T) {
	t.Run("acceso ayer suma uno", func(t *testing.T) {
		ana := newAna()
		ana.ConsecutiveDays = 4
		e := newEngine(t, false, ana)
		require.NoError(t, e.records.Create(context.Background(), &domain.AccessRecord{
			ClientID: "ana-id", Cedula: "12345678", AccessDay: "2026-10-14", Successful: true, ScheduleStartTime: "19",
		}))

		resp := e.validate("12345678")
		require.True(t, resp.Authorize, resp.Message)
		assert.Equal(t, 5, resp.Client.ConsecutiveDays)
	})

	t.Run("sin acceso ayer vuelve a uno", func(t *testing.T) {
		ana := newAna()
		ana.ConsecutiveDays = 10
		e := newEngine(t, false, ana)
		require.NoError(t, e.records.Create(context.Background(), &domain.AccessRecord{
			ClientID: "ana-id", Cedula: "12345678", AccessDay: "2026-10-13", Successful: true, ScheduleStartTime: "19",
		}))

		resp := e.validate("12345678")
		require.True(t, resp.Authorize, resp.Message)
		assert.Equal(t, 1, resp.Client.ConsecutiveDays)
	})

	t.Run("una denegación ayer no cuenta", func(t *testing.T) {
		ana := newAna()
		ana.ConsecutiveDays = 3
		e := newEngine(t, false, ana)
		require.NoError(t, e.records.Create(context.Background(), &domain.AccessRecord{
			ClientID: "ana-id", Cedula: "12345678", AccessDay: "2026-10-14", Successful: false,
		}))

		resp := e.validate("12345678")
		assert.Equal(t, 1, resp.Client.ConsecutiveDays)
	})
}

func TestValidateAccess_SecondSlotSameDayKeepsStreak(t *testing.T) {
	ana := newAna()
	ana.ConsecutiveDays = 2
	e := newEngine(t, false, ana)
	require.NoError(t, e.records.Create(context.Background(), &domain.AccessRecord{
		ClientID: "ana-id", Cedula: "12345678", AccessDay: "2026-10-14", Successful: true, ScheduleStartTime: "19",
	}))

	e.now = thursdayAt(7, 0)
	first := e.validate("12345678")
	require.True(t, first.Authorize, first.Message)
	assert.Equal(t, 3, first.Client.ConsecutiveDays)

	e.now = thursdayAt(19, 0)
	second := e.validate("12345678")
	require.True(t, second.Authorize, second.Message)
	assert.Equal(t, 3, second.Client.ConsecutiveDays)
	assert.Equal(t, 2, second.Client.TotalAccesses)
}

func TestValidateAccess_WindowLaw(t *testing.T) {
	cases := []struct {
		h, m      int
		authorize bool
		message   string
	}{
		{18, 50, true, MsgAccessGranted},
		{18, 49, false, "Todavía es temprano, podés ingresar a partir de las 18:50"},
		{19, 30, true, MsgAccessGranted},
		{19, 31, false, "El horario 19:00-20:00 ya no está disponible"},
	}

	for _, c := range cases {
		e := newEngine(t, false, newAna())
		e.now = thursdayAt(c.h, c.m)

		resp := e.validate("12345678")
		assert.Equal(t, c.authorize, resp.Authorize, "%02d:%02d", c.h, c.m)
		assert.Equal(t, c.message, resp.Message, "%02d:%02d", c.h, c.m)
	}
}

// Ventana en 0 minutos: solo se entra en el minuto exacto de inicio
func TestValidateAccess_ZeroMinuteWindowIsHonored(t *testing.T) {
	cases := []struct {
		h, m      int
		authorize bool
		message   string
	}{
		{18, 55, false, "Todavía es temprano, podés ingresar a partir de las 19:00"},
		{19, 1, false, "El horario 19:00-20:00 ya no está disponible"},
		{19, 0, true, MsgAccessGranted},
	}

	for _, c := range cases {
		e := newEngine(t, false, newAna())
		e.svc = NewAccessService(e.clients, e.schedules, NewDailyGuard(e.records, nil), e.records, e.rewards, nil,
			AccessConfig{Location: time.UTC, Now: func() time.Time { return e.now }})
		e.now = thursdayAt(c.h, c.m)

		resp := e.validate("12345678")
		assert.Equal(t, c.authorize, resp.Authorize, "%02d:%02d", c.h, c.m)
		assert.Equal(t, c.message, resp.Message, "%02d:%02d", c.h, c.m)
	}
}

func TestNewAccessService_NegativeWindowFallsBackToDefaults(t *testing.T) {
	svc := NewAccessService(nil, nil, nil, nil, nil, nil, AccessConfig{EarlyAccess: -time.Minute, LateAccess: -time.Minute})
	assert.Equal(t, DefaultEarlyAccess, svc.cfg.EarlyAccess)
	assert.Equal(t, DefaultLateAccess, svc.cfg.LateAccess)
	assert.Equal(t, time.UTC, svc.Location())
}

// Socio anotado solo a las 19 que ya ingresó hoy: se le niega el mismo turno pero no el de las 7
func TestValidateAccess_SlotDedupScenario(t *testing.T) {
	e := newEngine(t, false, newAna())
	require.NoError(t, e.records.Create(context.Background(), &domain.AccessRecord{
		ClientID: "ana-id", Cedula: "12345678", AccessDay: "2026-10-15", AccessDate: thursdayAt(19, 2),
		Successful: true, ScheduleID: "s19", ScheduleStartTime: "19",
	}))

	e.now = thursdayAt(19, 15)
	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Contains(t, resp.Message, "19:00 - 20:00")
	assert.Equal(t, "Ya registraste acceso hoy en el horario 19:00 - 20:00", resp.Message)

	e.now = thursdayAt(7, 5)
	resp = e.validate("12345678")
	assert.True(t, resp.Authorize, resp.Message)
}

func TestValidateAccess_RewardOnExactStreak(t *testing.T) {
	for _, c := range []struct {
		before int
		reward bool
	}{
		{5, false}, // llega a 6
		{6, true},  // llega a 7
		{7, false}, // llega a 8
	} {
		ana := newAna()
		ana.ConsecutiveDays = c.before
		e := newEngine(t, false, ana)
		require.NoError(t, e.records.Create(context.Background(), &domain.AccessRecord{
			ClientID: "ana-id", Cedula: "12345678", AccessDay: "2026-10-14", Successful: true, ScheduleStartTime: "19",
		}))

		resp := e.validate("12345678")
		require.True(t, resp.Authorize, resp.Message)
		if c.reward {
			require.NotNil(t, resp.Reward)
			assert.Equal(t, domain.RewardSummary{Name: "Batido gratis", Description: "Una semana seguida", RequiredDays: 7}, *resp.Reward)
		} else {
			assert.Nil(t, resp.Reward, "racha %d", c.before+1)
		}
	}
}

func TestValidateAccess_RewardLookupFailureStillGrants(t *testing.T) {
	e := newEngine(t, false, newAna())
	e.rewards.err = errStoreDown

	resp := e.validate("12345678")
	assert.True(t, resp.Authorize)
	assert.Nil(t, resp.Reward)
}

func TestValidateAccess_NoSchedulesToday(t *testing.T) {
	e := newEngine(t, false, newAna())
	e.now = time.Date(2026, 10, 18, 19, 0, 0, 0, time.UTC) // domingo

	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Equal(t, "No hay horarios disponibles para hoy", resp.Message)
}

func TestValidateAccess_NotEnrolledUsesEarliestRelevantSlot(t *testing.T) {
	bruno := &clientsDomain.Client{ID: "bruno-id", CI: "2", Name: "Bruno"}
	e := newEngine(t, false, bruno)
	e.now = thursdayAt(19, 10)

	resp := e.validate("2")
	assert.False(t, resp.Authorize)
	assert.Equal(t, "No estas anotado para el horario: 19:00 - 20:00", resp.Message)
	assert.Equal(t, 2, e.schedules.enrollChecks, "la inscripción se resuelve en el lookup de turnos")
}

func TestValidateAccess_NoRelevantSlotsNow(t *testing.T) {
	e := newEngine(t, false, newAna())
	e.now = thursdayAt(12, 0)

	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Equal(t, "No hay horarios disponibles en este momento", resp.Message)
}

// Dos turnos consecutivos: a las 19:50 el de las 20 todavía no abre y el de las 19 ya venció
func TestValidateAccess_MultipleEnrolledSlotsPrefersUpcoming(t *testing.T) {
	e := newEngine(t, false, newAna())
	e.schedules.slots[2].Clients = []string{"ana-id"}
	e.now = thursdayAt(19, 45)

	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Equal(t, "Todavía es temprano, podés ingresar a partir de las 19:50", resp.Message)

	e.now = thursdayAt(19, 50)
	resp = e.validate("12345678")
	assert.True(t, resp.Authorize, resp.Message)
	assert.Equal(t, "s20", e.records.successful()[0].ScheduleID)
}

// El guard falla abierto: un error al leer el historial no impide el acceso
func TestValidateAccess_GuardFailureFailsOpen(t *testing.T) {
	e := newEngine(t, false, newAna())
	e.records.findErr = errStoreDown

	resp := e.validate("12345678")
	assert.True(t, resp.Authorize, resp.Message)
}

func TestValidateAccess_OperatingHoursIndeterminateFailsOpen(t *testing.T) {
	e := newEngine(t, false, newAna())
	unknown := checks.Indeterminate(errStoreDown)
	e.schedules.operatingForce = &unknown

	resp := e.validate("12345678")
	assert.True(t, resp.Authorize, resp.Message)
}

// La ventana del turno es decisiva: sin turnos no hay acceso
func TestValidateAccess_ScheduleLookupFailureIsGenericDenial(t *testing.T) {
	e := newEngine(t, false, newAna())
	e.schedules.relevantErr = errStoreDown

	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Equal(t, MsgGenericError, resp.Message)
	assert.Equal(t, MsgGenericError, e.records.last().Reason)
}

// Si dos validaciones concurrentes pasan el guard, el índice único decide
func TestValidateAccess_DuplicateGrantIsAlreadyAccessed(t *testing.T) {
	e := newEngine(t, false, newAna())
	require.NoError(t, e.records.Create(context.Background(), &domain.AccessRecord{
		ClientID: "ana-id", Cedula: "otra-cedula", AccessDay: "2026-10-15", Successful: true, ScheduleID: "s19", ScheduleStartTime: "19",
	}))

	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Equal(t, "Ya registraste acceso hoy en el horario 19:00 - 20:00", resp.Message)
	assert.Equal(t, 0, e.clients.get("12345678").TotalAccesses)
}

func TestValidateAccess_GrantWriteFailure(t *testing.T) {
	e := newEngine(t, false, newAna())
	e.records.grantErr = errStoreDown

	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Equal(t, MsgGenericError, resp.Message)
	assert.Empty(t, e.records.successful())
	assert.Equal(t, MsgGenericError, e.records.last().Reason)
}

func TestValidateAccess_ClientStoreFailure(t *testing.T) {
	e := newEngine(t, false, newAna())
	e.clients.err = errStoreDown

	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Equal(t, MsgGenericError, resp.Message)
	assert.Equal(t, 1, e.records.count())
}

func TestValidateAccess_DenialRecordWriteFailure(t *testing.T) {
	e := newEngine(t, false)
	e.records.createErr = errStoreDown

	resp := e.validate("1")
	assert.False(t, resp.Authorize)
	assert.Equal(t, MsgGenericError, resp.Message)
}

func TestValidateAccess_GrantCacheShortCircuits(t *testing.T) {
	e := newEngine(t, true, newAna())
	e.now = thursdayAt(19, 0)

	require.True(t, e.validate("12345678").Authorize)

	// aunque el historial no responda, la caché ya sabe que el turno se usó
	e.records.findErr = errStoreDown
	e.now = thursdayAt(19, 10)
	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.True(t, strings.HasPrefix(resp.Message, "Ya registraste acceso hoy"))
}

func TestValidateAccess_GrantCacheErrorsFallBackToStore(t *testing.T) {
	e := newEngine(t, true, newAna())
	e.cache.err = errStoreDown

	resp := e.validate("12345678")
	assert.True(t, resp.Authorize, resp.Message)

	resp = e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Equal(t, "Ya registraste acceso hoy en el horario 19:00 - 20:00", resp.Message)
}

func TestValidateAccess_DayKeyUsesGymTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/Montevideo")
	require.NoError(t, err)

	e := newEngine(t, false, newAna())
	// 22:05 en Montevideo del jueves 15 son las 01:05 UTC del viernes 16
	e.schedules.slots = append(e.schedules.slots, schedulesDomain.Slot{
		ID: "s22", Day: "Jueves", StartTime: "22", EndTime: "23", StartHour: 22, Clients: []string{"ana-id"},
	})
	e.now = time.Date(2026, 10, 16, 1, 5, 0, 0, time.UTC)
	e.svc = NewAccessService(e.clients, e.schedules, NewDailyGuard(e.records, nil), e.records, e.rewards, nil,
		AccessConfig{Location: loc, EarlyAccess: DefaultEarlyAccess, LateAccess: DefaultLateAccess, Now: func() time.Time { return e.now }})

	resp := e.validate("12345678")
	require.True(t, resp.Authorize, resp.Message)
	assert.Equal(t, "2026-10-15", e.records.successful()[0].AccessDay)
}

func TestValidateAccess_MorningDedupMessageHasNoLeadingZero(t *testing.T) {
	e := newEngine(t, false, newAna())
	e.now = thursdayAt(7, 5)
	require.True(t, e.validate("12345678").Authorize)

	e.now = thursdayAt(7, 10)
	resp := e.validate("12345678")
	assert.False(t, resp.Authorize)
	assert.Equal(t, "Ya registraste acceso hoy en el horario 7:00 - 8:00", resp.Message)
}
