package simulation

import (
	"fmt"
	"sort"
)

// OfficeState - популяция одного офиса, разложенная по корзинам
// (роль, уровень). Сотрудники несут роль и уровень значением
// и перекладываются между корзинами при повышении; обратных
// указателей из сотрудника в корзину нет.
type OfficeState struct {
	ID      string
	buckets map[LevelRef][]*Person
	order   []LevelRef
}

// NewOfficeState материализует стартовую популяцию офиса из
// конфигурации. Стартовые сотрудники считаются нанятыми за месяц
// до начала сценария, поэтому с первого месяца доступны для оттока
// и для оценки повышения.
func NewOfficeState(cfg OfficeConfig, start MonthKey) *OfficeState {
	state := &OfficeState{
		ID:      cfg.ID,
		buckets: make(map[LevelRef][]*Person),
	}

	before := start.Prev()
	for _, lc := range cfg.Levels {
		ref := lc.Ref()
		bucket := make([]*Person, 0, lc.StartingFTE)
		for i := 0; i < lc.StartingFTE; i++ {
			bucket = append(bucket, NewPerson(cfg.ID, lc.Role, lc.Level, before))
		}
		state.buckets[ref] = bucket
		state.order = append(state.order, ref)
	}

	sort.Slice(state.order, func(i, j int) bool {
		if state.order[i].Role != state.order[j].Role {
			return state.order[i].Role < state.order[j].Role
		}
		return state.order[i].Level < state.order[j].Level
	})

	return state
}

// Headcount возвращает число активных сотрудников корзины
func (s *OfficeState) Headcount(ref LevelRef) int {
	n := 0
	for _, p := range s.buckets[ref] {
		if p.Active {
			n++
		}
	}
	return n
}

// Headcounts возвращает активную численность по всем корзинам
func (s *OfficeState) Headcounts() map[LevelRef]int {
	counts := make(map[LevelRef]int, len(s.order))
	for _, ref := range s.order {
		counts[ref] = s.Headcount(ref)
	}
	return counts
}

// LevelOrder возвращает корзины в стабильном порядке обхода
func (s *OfficeState) LevelOrder() []LevelRef {
	return s.order
}

// Persons возвращает всех сотрудников корзины, включая выбывших
func (s *OfficeState) Persons(ref LevelRef) []*Person {
	return s.buckets[ref]
}

// ConsistencyError - разрешённые параметры ссылаются на состояние,
// которого у движка нет. После успешной валидации такого быть
// не должно: ошибка фатальна и прерывает запуск.
type ConsistencyError struct {
	Office string
	Month  MonthKey
	Ref    LevelRef
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("office %s month %s: resolved parameters reference unknown level %s", e.Office, e.Month, e.Ref)
}

// AdvanceMonth продвигает популяцию офиса на один месяц и возвращает
// события в порядке применения. Фазы выполняются строго по порядку:
// найм, отток, повышения - порядок несущий, от него зависит
// детерминизм и воспроизводимость ожидаемых результатов.
// Месяцы одного офиса обрабатываются строго последовательно.
func AdvanceMonth(state *OfficeState, year, month int, office *ResolvedOffice, rng RandomSource) ([]Event, error) {
	key := NewMonthKey(year, month)
	var events []Event

	// Фаза 1: найм
	for _, ref := range office.LevelOrder() {
		lvl := office.Levels[ref]
		params, ok := lvl.Months[key]
		if !ok {
			continue
		}

		bucket, known := state.buckets[ref]
		if !known {
			return nil, &ConsistencyError{Office: state.ID, Month: key, Ref: ref}
		}

		for i := 0; i < params.Recruitment; i++ {
			p := NewPerson(state.ID, ref.Role, ref.Level, key)
			ev := Event{
				Year:    year,
				Month:   month,
				Kind:    EventHired,
				Office:  state.ID,
				Role:    ref.Role,
				ToLevel: ref.Level,
			}
			p.Events = append(p.Events, ev)
			bucket = append(bucket, p)
			events = append(events, ev)
		}
		state.buckets[ref] = bucket
	}

	// Фаза 2: отток. Нанятые в текущем месяце не выбывают как минимум
	// до следующего месяца; среди остальных первыми уходят сотрудники
	// с наибольшим стажем на уровне, при равенстве стажа - стоящий
	// раньше в корзине.
	for _, ref := range office.LevelOrder() {
		lvl := office.Levels[ref]
		params, ok := lvl.Months[key]
		if !ok || params.Churn == 0 {
			continue
		}

		bucket, known := state.buckets[ref]
		if !known {
			return nil, &ConsistencyError{Office: state.ID, Month: key, Ref: ref}
		}

		var candidates []*Person
		for _, p := range bucket {
			if p.Active && p.HiredAt != key {
				candidates = append(candidates, p)
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].TenureInLevel(key) > candidates[j].TenureInLevel(key)
		})

		n := params.Churn
		if n > len(candidates) {
			n = len(candidates)
		}
		for _, p := range candidates[:n] {
			p.Active = false
			ev := Event{
				Year:         year,
				Month:        month,
				Kind:         EventChurned,
				Office:       state.ID,
				Role:         ref.Role,
				FromLevel:    ref.Level,
				TenureMonths: p.TenureInLevel(key),
			}
			p.Events = append(p.Events, ev)
			events = append(events, ev)
		}
	}

	// Фаза 3: повышения. Один розыгрыш на каждого активного сотрудника
	// подходящей корзины в порядке обхода популяции; снимок корзин
	// фиксируется до перемещений, чтобы повышенный в этом месяце
	// не разыгрывался второй раз.
	type move struct {
		person *Person
		from   LevelRef
		to     LevelRef
	}
	var moves []move

	for _, ref := range office.LevelOrder() {
		lvl := office.Levels[ref]
		params, ok := lvl.Months[key]
		if !ok {
			continue
		}
		cfg := lvl.Config
		if Terminal(cfg) || !EligibleMonth(cfg, month) {
			continue
		}

		bucket, known := state.buckets[ref]
		if !known {
			return nil, &ConsistencyError{Office: state.ID, Month: key, Ref: ref}
		}

		to := LevelRef{Role: ref.Role, Level: cfg.NextLevel}
		if _, known := state.buckets[to]; !known {
			return nil, &ConsistencyError{Office: state.ID, Month: key, Ref: to}
		}

		for _, p := range bucket {
			if !p.Active {
				continue
			}
			prob := PromotionProbability(cfg.Curve, p.TenureInLevel(key), params.ProgressionMult)
			if rng.Float64() < prob {
				moves = append(moves, move{person: p, from: ref, to: to})
			}
		}
	}

	for _, mv := range moves {
		from := state.buckets[mv.from]
		for i, p := range from {
			if p == mv.person {
				state.buckets[mv.from] = append(from[:i:i], from[i+1:]...)
				break
			}
		}
		mv.person.Level = mv.to.Level
		mv.person.LevelSince = key
		state.buckets[mv.to] = append(state.buckets[mv.to], mv.person)

		ev := Event{
			Year:      year,
			Month:     month,
			Kind:      EventPromoted,
			Office:    state.ID,
			Role:      mv.from.Role,
			FromLevel: mv.from.Level,
			ToLevel:   mv.to.Level,
		}
		mv.person.Events = append(mv.person.Events, ev)
		events = append(events, ev)
	}

	return events, nil
}
