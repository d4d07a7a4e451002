package tokenstore

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"taskhub/internal/logger"

	"go.uber.org/zap"
)

const DefaultTTL = 15 * time.Minute
const tokenDigits = 6

// Store — токены для сброса пароля: живут в памяти процесса, привязаны
// к email, одноразовые, с TTL. Одна грубая блокировка вокруг всех
// операций с картой — этого достаточно и для конкурентных вызовов.
// Перезапуск процесса обнуляет все выданные токены.
type Store struct {
	mtx    sync.Mutex
	tokens map[string]*entry
	ttl    time.Duration
}

type entry struct {
	token     string
	email     string
	expiresAt time.Time
	used      bool
}

// New создаёт стор с заданным TTL; неположительный TTL заменяется
// пятнадцатью минутами.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		tokens: make(map[string]*entry),
		ttl:    ttl,
	}
}

// Generate выдаёт новый токен для email, предварительно удалив все его
// прежние токены: живым остаётся максимум один токен на адрес.
func (s *Store) Generate(email string) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", fmt.Errorf("генерация токена: %w", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	for t, e := range s.tokens {
		if e.email == email {
			delete(s.tokens, t)
		}
	}

	s.tokens[token] = &entry{
		token:     token,
		email:     email,
		expiresAt: time.Now().Add(s.ttl),
		used:      false,
	}
	return token, nil
}

// Validate проверяет токен по настенным часам в момент вызова. Ложь,
// если токен неизвестен, истёк, уже использован или привязан к другому
// email; пустой email пропускает проверку привязки. Истёкший токен
// выселяется прямо на этом пути.
func (s *Store) Validate(token, email string) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	e, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.tokens, token)
		return false
	}
	if e.used {
		return false
	}
	if email != "" && e.email != email {
		return false
	}
	return true
}

// MarkUsed ставит флаг, но запись не удаляет: повторное предъявление
// должно давать именно "использован", а не "неизвестный токен".
func (s *Store) MarkUsed(token string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if e, ok := s.tokens[token]; ok {
		e.used = true
	}
}

// Cleanup выметает все истёкшие записи; запускается внешним планировщиком.
func (s *Store) Cleanup() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := time.Now()
	swept := 0
	for t, e := range s.tokens {
		if now.After(e.expiresAt) {
			delete(s.tokens, t)
			swept++
		}
	}
	if swept > 0 {
		logger.Info("TokenStore: выметены истёкшие токены", zap.Int("swept", swept))
	}
	return swept
}

// Len — количество живых записей (включая использованные, но не истёкшие).
func (s *Store) Len() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.tokens)
}

func randomToken() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < tokenDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", tokenDigits, n), nil
}
