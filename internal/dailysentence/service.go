package dailysentence

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Furry-Xiyi/TranslatorApp/internal/logger"
	"github.com/Furry-Xiyi/TranslatorApp/pkg/model"
)

// Service 持有当前每日一句记录并向订阅者广播更新。
// 记录只做整体替换，订阅回调在替换完成后触发
type Service struct {
	fetcher *Fetcher
	log     logger.Logger

	mu      sync.RWMutex
	current model.DailySentence

	subMu       sync.Mutex
	subscribers map[string]func(model.DailySentence)

	refreshing sync.Mutex
}

// NewService 创建服务，初始记录为占位内容
func NewService(fetcher *Fetcher, l logger.Logger) *Service {
	if l == nil {
		l = logger.NewNop()
	}
	return &Service{
		fetcher:     fetcher,
		log:         l,
		current:     Fallback(),
		subscribers: make(map[string]func(model.DailySentence)),
	}
}

// Current 返回当前记录的副本
func (s *Service) Current() model.DailySentence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe 注册更新回调，返回用于取消订阅的句柄
func (s *Service) Subscribe(fn func(model.DailySentence)) string {
	id := uuid.NewString()
	s.subMu.Lock()
	s.subscribers[id] = fn
	s.subMu.Unlock()
	return id
}

// Unsubscribe 取消订阅
func (s *Service) Unsubscribe(id string) {
	s.subMu.Lock()
	delete(s.subscribers, id)
	s.subMu.Unlock()
}

// Refresh 重新抓取并整体替换当前记录。并发调用只有一个生效，
// 其余直接返回当前记录
func (s *Service) Refresh(ctx context.Context) model.DailySentence {
	if !s.refreshing.TryLock() {
		return s.Current()
	}
	defer s.refreshing.Unlock()

	next := s.fetcher.Fetch(ctx)

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.log.Info("每日一句已更新", "date", next.Date)
	s.notify(next)
	return next
}

// notify 在记录替换完成之后广播
func (s *Service) notify(rec model.DailySentence) {
	s.subMu.Lock()
	fns := make([]func(model.DailySentence), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(rec)
	}
}
