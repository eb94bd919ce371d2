package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"task-board/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BoardCache 以 Redis 快取整個看板讀取模型。Redis 錯誤只會退回資料庫，不會讓請求失敗。
// 寫入後由呼叫端 Evict；與寫入並行的讀取可能在 ttl 內留下舊資料。
type BoardCache struct {
	client Cache
	ttl    time.Duration
	log    *zap.SugaredLogger
}

// NewBoardCache client 為 nil 或 ttl <= 0 時停用快取
func NewBoardCache(client Cache, ttl time.Duration, log *zap.SugaredLogger) *BoardCache {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &BoardCache{client: client, ttl: ttl, log: log.Named("cache.board")}
}

func (b *BoardCache) Enabled() bool {
	return b != nil && b.client != nil && b.ttl > 0
}

// Fetch 先讀快取，miss 時呼叫 load 並回寫
func (b *BoardCache) Fetch(ctx context.Context, projectID string, load func(context.Context) (*model.Board, error)) (*model.Board, error) {
	if !b.Enabled() {
		return load(ctx)
	}
	if board, ok := b.get(ctx, projectID); ok {
		return board, nil
	}
	board, err := load(ctx)
	if err != nil {
		return nil, err
	}
	b.store(ctx, projectID, board)
	return board, nil
}

// Evict 刪除指定專案的快取，空字串會被略過
func (b *BoardCache) Evict(ctx context.Context, projectIDs ...string) {
	if !b.Enabled() {
		return
	}
	keys := make([]string, 0, len(projectIDs))
	seen := map[string]bool{}
	for _, id := range projectIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, boardKey(id))
	}
	if len(keys) == 0 {
		return
	}
	if err := b.client.Del(ctx, keys...).Err(); err != nil {
		b.log.Warnw("evict failed", "keys", keys, "error", err)
	}
}

func (b *BoardCache) get(ctx context.Context, projectID string) (*model.Board, bool) {
	data, err := b.client.Get(ctx, boardKey(projectID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			b.log.Warnw("cache read failed", "project_id", projectID, "error", err)
		}
		return nil, false
	}
	var board model.Board
	if err := json.Unmarshal(data, &board); err != nil {
		_ = b.client.Del(ctx, boardKey(projectID)).Err()
		return nil, false
	}
	return &board, true
}

func (b *BoardCache) store(ctx context.Context, projectID string, board *model.Board) {
	data, err := json.Marshal(board)
	if err != nil {
		return
	}
	if err := b.client.Set(ctx, boardKey(projectID), data, b.ttl).Err(); err != nil {
		b.log.Warnw("cache write failed", "project_id", projectID, "error", err)
	}
}

func boardKey(projectID string) string {
	return "board:" + projectID
}
