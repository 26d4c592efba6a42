package simulation

import (
	"hash/fnv"
	"math/rand"
)

// RandomSource - источник равномерных случайных чисел для движка.
// Интерфейс позволяет подставить детерминированную заглушку в тестах.
type RandomSource interface {
	// Float64 возвращает следующее число из [0, 1)
	Float64() float64
}

type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource создаёт источник, воспроизводимый по сиду
func NewSeededSource(seed int64) RandomSource {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}

// OfficeSeed выводит сид офиса из сида запуска. Каждый офис получает
// собственный источник, поэтому порядок обработки офисов не влияет
// на результат.
func OfficeSeed(runSeed int64, officeID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(officeID))
	return runSeed ^ int64(h.Sum64())
}
