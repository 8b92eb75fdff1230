package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	clientsDomain "github.com/AzielCF/az-gym/clients/domain"
	"github.com/AzielCF/az-gym/gymaccess/domain"
	"github.com/AzielCF/az-gym/pkg/checks"
	rewardsDomain "github.com/AzielCF/az-gym/rewards/domain"
	schedulesDomain "github.com/AzielCF/az-gym/schedules/domain"
)

var errStoreDown = errors.New("store down")

// --- clientes ---

type fakeClients struct {
	mu   sync.Mutex
	byCI map[string]*clientsDomain.Client
	err  error
}

func newFakeClients(clients ...*clientsDomain.Client) *fakeClients {
	f := &fakeClients{byCI: map[string]*clientsDomain.Client{}}
	for _, c := range clients {
		f.byCI[c.CI] = c
	}
	return f
}

func (f *fakeClients) GetByCI(ctx context.Context, ci string) (*clientsDomain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.byCI[ci]
	if !ok {
		return nil, clientsDomain.ErrClientNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClients) get(ci string) *clientsDomain.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byCI[ci]
}

// --- turnos ---

type fakeSchedules struct {
	slots          []schedulesDomain.Slot
	relevantErr    error
	operatingForce *checks.Result
	enrollChecks   int
}

func (f *fakeSchedules) GetRelevantSchedules(ctx context.Context, day string, now time.Time) ([]schedulesDomain.Slot, error) {
	if f.relevantErr != nil {
		return nil, f.relevantErr
	}
	var out []schedulesDomain.Slot
	for _, s := range f.slots {
		if s.Day == day && (s.StartHour == now.Hour() || s.StartHour == now.Hour()+1) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartHour < out[j].StartHour })
	return out, nil
}

func (f *fakeSchedules) IsClientEnrolled(slot schedulesDomain.Slot, clientID string) bool {
	f.enrollChecks++
	return slot.HasClient(clientID)
}

func (f *fakeSchedules) CheckOperatingHours(ctx context.Context, day string, now time.Time, clientID string) checks.Result {
	if f.operatingForce != nil {
		return *f.operatingForce
	}
	for _, s := range f.slots {
		if s.Day == day {
			return checks.Allowed()
		}
	}
	return checks.Denied("No hay horarios disponibles para hoy")
}

// --- registros ---

type fakeRecords struct {
	mu         sync.Mutex
	records    []domain.AccessRecord
	clients    *fakeClients
	createErr  error
	findErr    error
	grantErr   error
	existsErr  error
	grantCalls int
}

func newFakeRecords(clients *fakeClients) *fakeRecords {
	return &fakeRecords{clients: clients}
}

func (f *fakeRecords) Create(ctx context.Context, r *domain.AccessRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeRecords) FindLatestSuccessfulByCedulaAndDay(ctx context.Context, cedula, day string) (*domain.AccessRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var latest *domain.AccessRecord
	for i := range f.records {
		r := f.records[i]
		if r.Cedula == cedula && r.AccessDay == day && r.Successful {
			if latest == nil || !r.AccessDate.Before(latest.AccessDate) {
				latest = &f.records[i]
			}
		}
	}
	if latest == nil {
		return nil, domain.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeRecords) ExistsSuccessfulByClientAndDay(ctx context.Context, clientID, day string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, r := range f.records {
		if r.ClientID == clientID && r.AccessDay == day && r.Successful {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecords) RecordGrant(ctx context.Context, r *domain.AccessRecord, u domain.GrantUpdate) (domain.GrantResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grantCalls++
	if f.grantErr != nil {
		return domain.GrantResult{}, f.grantErr
	}
	for _, existing := range f.records {
		if existing.Successful && existing.ClientID == r.ClientID && existing.AccessDay == r.AccessDay && existing.ScheduleID == r.ScheduleID {
			return domain.GrantResult{}, domain.ErrDuplicateGrant
		}
	}
	f.records = append(f.records, *r)

	f.clients.mu.Lock()
	defer f.clients.mu.Unlock()
	for _, c := range f.clients.byCI {
		if c.ID == u.ClientID {
			c.TotalAccesses++
			c.ConsecutiveDays = u.ConsecutiveDays
			last := u.LastAccess
			c.LastAccess = &last
			return domain.GrantResult{ConsecutiveDays: c.ConsecutiveDays, TotalAccesses: c.TotalAccesses}, nil
		}
	}
	return domain.GrantResult{}, domain.ErrClientNotFound
}

func (f *fakeRecords) FindAll(ctx context.Context, filter domain.HistoryFilter) ([]domain.AccessRecord, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, 0, f.findErr
	}
	var out []domain.AccessRecord
	for _, r := range f.records {
		if filter.Cedula != "" && r.Cedula != filter.Cedula {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeRecords) CountByDay(ctx context.Context, day string, successful bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.records {
		if r.AccessDay == day && r.Successful == successful {
			n++
		}
	}
	return n, nil
}

func (f *fakeRecords) CountSuccessfulBetween(ctx context.Context, from, to string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.records {
		if r.Successful && r.AccessDay >= from && r.AccessDay <= to {
			n++
		}
	}
	return n, nil
}

func (f *fakeRecords) TopClients(ctx context.Context, filter domain.StatsFilter, limit int) ([]domain.TopClient, error) {
	return nil, nil
}

func (f *fakeRecords) successful() []domain.AccessRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AccessRecord
	for _, r := range f.records {
		if r.Successful {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeRecords) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeRecords) last() domain.AccessRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[len(f.records)-1]
}

// --- premios ---

type fakeRewards struct {
	byDays map[int]*rewardsDomain.Reward
	err    error
}

func (f *fakeRewards) FindByRequiredDays(ctx context.Context, days int) (*rewardsDomain.Reward, error) {
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.byDays[days]; ok {
		return r, nil
	}
	return nil, rewardsDomain.ErrRewardNotFound
}

// --- caché ---

type fakeGrantCache struct {
	grants map[string]map[int]bool
	err    error
}

func newFakeGrantCache() *fakeGrantCache {
	return &fakeGrantCache{grants: map[string]map[int]bool{}}
}

func (f *fakeGrantCache) MatchGrant(ctx context.Context, cedula, day string, hours ...int) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	for _, h := range hours {
		if f.grants[cedula+"|"+day][h] {
			return h, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeGrantCache) RememberGrant(ctx context.Context, cedula, day string, hour int) error {
	if f.err != nil {
		return f.err
	}
	key := cedula + "|" + day
	if f.grants[key] == nil {
		f.grants[key] = map[int]bool{}
	}
	f.grants[key][hour] = true
	return nil
}
