package board

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"task-board/internal/model"
	"task-board/internal/worker"
)

// ErrInvalidMove 表示來源欄位、目的欄位或來源索引不存在
var ErrInvalidMove = errors.New("invalid move")

// ErrClosed 表示 Board 已關閉，無法再送出同步
var ErrClosed = errors.New("board closed")

// Policy 決定同步失敗時如何處理樂觀更新
type Policy int

const (
	// Revert 將任務放回移動前的位置
	Revert Policy = iota
	// MarkUnsynced 保留樂觀位置並把任務標記為未同步
	MarkUnsynced
)

func (p Policy) String() string {
	switch p {
	case Revert:
		return "revert"
	case MarkUnsynced:
		return "mark-unsynced"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// API 是 Board 需要的遠端操作，*client.Client 即滿足
type API interface {
	Board(ctx context.Context, projectID string) (*model.Board, error)
	MoveTask(ctx context.Context, taskID, columnID string) (*model.Task, error)
}

// Result 是一次同步的結果
type Result struct {
	TaskID   string
	ColumnID string
	Err      error
	// Stale 表示已有較新的移動，此結果不影響畫面
	Stale bool
}

type Options struct {
	Policy Policy
	// Render 在每次狀態改變後同步呼叫
	Render func(*model.Board)
	// Settled 在每次同步完成後呼叫，於 worker goroutine 中執行
	Settled func(Result)
	// Pool 為 nil 時建立單一 worker 的 pool，保持送出順序
	Pool    worker.Pool
	Timeout time.Duration
	Log     *zap.SugaredLogger
}

const defaultTimeout = 10 * time.Second

type position struct {
	columnID string
	index    int
}

// Board 是前端看板的樂觀狀態：先改本地再背景同步
type Board struct {
	api       API
	projectID string
	policy    Policy
	render    func(*model.Board)
	settled   func(Result)
	timeout   time.Duration
	log       *zap.SugaredLogger

	pool     worker.Pool
	ownsPool bool
	pending  sync.WaitGroup

	mu       sync.Mutex
	columns  []model.BoardColumn
	seq      uint64
	latest   map[string]uint64   // task id -> 最新一次移動
	targets  map[uint64]position // 尚未完成的移動目的地
	base     map[string]position // 最後確認的伺服器位置
	unsynced map[string]bool
	closed   bool
	version  uint64 // 每次狀態改變遞增

	renderMu sync.Mutex
	rendered uint64 // 最後繪出的 version
}

// frame 是待繪出的快照與其 version
type frame struct {
	board   *model.Board
	version uint64
}

// New 建立空的 Board，需呼叫 Reload 取得資料
func New(api API, projectID string, opts Options) *Board {
	b := &Board{
		api:       api,
		projectID: projectID,
		policy:    opts.Policy,
		render:    opts.Render,
		settled:   opts.Settled,
		timeout:   opts.Timeout,
		log:       opts.Log,
		pool:      opts.Pool,
	}
	if b.timeout <= 0 {
		b.timeout = defaultTimeout
	}
	if b.log == nil {
		b.log = zap.NewNop().Sugar()
	}
	if b.pool == nil {
		b.pool = worker.NewPool(1)
		b.ownsPool = true
	}
	b.reset(nil)
	return b
}

// Open 建立 Board 並載入目前的看板
func Open(ctx context.Context, api API, projectID string, opts Options) (*Board, error) {
	b := New(api, projectID, opts)
	if err := b.Reload(ctx); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *Board) reset(columns []model.BoardColumn) {
	b.columns = columns
	b.latest = make(map[string]uint64)
	b.targets = make(map[uint64]position)
	b.base = make(map[string]position)
	b.unsynced = make(map[string]bool)
}

// Reload 以伺服器的看板取代本地狀態，進行中的同步結果將被忽略
func (b *Board) Reload(ctx context.Context) error {
	board, err := b.api.Board(ctx, b.projectID)
	if err != nil {
		return fmt.Errorf("load board %s: %w", b.projectID, err)
	}
	b.mu.Lock()
	b.reset(copyColumns(board.Columns))
	f := b.frameLocked()
	b.mu.Unlock()
	b.emit(f)
	return nil
}

// Move 把 srcColumn 第 srcIndex 個任務移到 dstColumn 的 dstIndex，
// 立即重繪再背景送出 PATCH
func (b *Board) Move(srcColumn string, srcIndex int, dstColumn string, dstIndex int) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	src, dst := b.columnIndex(srcColumn), b.columnIndex(dstColumn)
	if src < 0 || dst < 0 {
		b.mu.Unlock()
		return fmt.Errorf("%w: unknown column", ErrInvalidMove)
	}
	if srcIndex < 0 || srcIndex >= len(b.columns[src].Tasks) {
		b.mu.Unlock()
		return fmt.Errorf("%w: no task at %s[%d]", ErrInvalidMove, srcColumn, srcIndex)
	}

	limit := len(b.columns[dst].Tasks)
	if src == dst {
		limit--
	}
	dstIndex = clamp(dstIndex, limit)
	if src == dst && dstIndex == srcIndex {
		b.mu.Unlock()
		return nil
	}

	task := b.columns[src].Tasks[srcIndex]
	b.columns[src].Tasks = remove(b.columns[src].Tasks, srcIndex)
	task.ColumnID = dstColumn
	b.columns[dst].Tasks = insert(b.columns[dst].Tasks, dstIndex, task)

	b.seq++
	gen := b.seq
	if _, ok := b.base[task.ID]; !ok {
		b.base[task.ID] = position{columnID: srcColumn, index: srcIndex}
	}
	b.latest[task.ID] = gen
	b.targets[gen] = position{columnID: dstColumn, index: dstIndex}
	b.pending.Add(1)
	f := b.frameLocked()
	b.mu.Unlock()

	b.emit(f)
	b.persist(task.ID, dstColumn, gen)
	return nil
}

// MoveTask 以任務 id 找出來源位置後呼叫 Move
func (b *Board) MoveTask(taskID, dstColumn string, dstIndex int) error {
	col, idx, ok := b.Locate(taskID)
	if !ok {
		return fmt.Errorf("%w: unknown task %s", ErrInvalidMove, taskID)
	}
	return b.Move(col, idx, dstColumn, dstIndex)
}

// Locate 回傳任務目前所在的欄位與索引
func (b *Board) Locate(taskID string) (string, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, i := b.find(taskID)
	if c < 0 {
		return "", 0, false
	}
	return b.columns[c].ID, i, true
}

func (b *Board) persist(taskID, columnID string, gen uint64) {
	err := b.pool.Submit(func() {
		defer b.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		_, err := b.api.MoveTask(ctx, taskID, columnID)
		cancel()
		b.settle(taskID, columnID, gen, err)
	})
	if err != nil {
		defer b.pending.Done()
		b.settle(taskID, columnID, gen, fmt.Errorf("%w: %v", ErrClosed, err))
	}
}

func (b *Board) settle(taskID, columnID string, gen uint64, err error) {
	res := Result{TaskID: taskID, ColumnID: columnID, Err: err}

	b.mu.Lock()
	target, known := b.targets[gen]
	delete(b.targets, gen)
	latest := known && b.latest[taskID] == gen
	res.Stale = !latest
	changed := false

	switch {
	case !known:
		// Reload 之前送出的移動
	case err == nil && latest:
		delete(b.base, taskID)
		delete(b.latest, taskID)
		if b.unsynced[taskID] {
			delete(b.unsynced, taskID)
			changed = true
		}
	case err == nil:
		if _, ok := b.base[taskID]; ok {
			b.base[taskID] = target
		}
	case !latest:
		// 較新的移動決定最終狀態
	case b.policy == MarkUnsynced:
		b.unsynced[taskID] = true
		delete(b.latest, taskID)
		changed = true
	default:
		if pos, ok := b.base[taskID]; ok {
			b.relocate(taskID, pos)
			changed = true
		}
		delete(b.base, taskID)
		delete(b.latest, taskID)
		delete(b.unsynced, taskID)
	}

	var f frame
	if changed {
		f = b.frameLocked()
	}
	b.mu.Unlock()

	if err != nil {
		b.log.Warnw("task move not persisted",
			"task_id", taskID,
			"column_id", columnID,
			"policy", b.policy.String(),
			"stale", res.Stale,
			"error", err,
		)
	}
	if changed {
		b.emit(f)
	}
	if b.settled != nil {
		b.settled(res)
	}
}

// relocate 把任務放回 pos；欄位已不存在時維持原位
func (b *Board) relocate(taskID string, pos position) {
	dst := b.columnIndex(pos.columnID)
	c, i := b.find(taskID)
	if dst < 0 || c < 0 {
		return
	}
	task := b.columns[c].Tasks[i]
	b.columns[c].Tasks = remove(b.columns[c].Tasks, i)
	task.ColumnID = pos.columnID
	b.columns[dst].Tasks = insert(b.columns[dst].Tasks, clamp(pos.index, len(b.columns[dst].Tasks)), task)
}

// Snapshot 回傳目前看板的複本
func (b *Board) Snapshot() *model.Board {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Unsynced 回傳同步失敗且尚未恢復的任務 id，已排序
func (b *Board) Unsynced() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.unsynced))
	for id := range b.unsynced {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Wait 等待所有已送出的同步完成
func (b *Board) Wait() {
	b.pending.Wait()
}

// Close 等待同步完成並停止自建的 pool
func (b *Board) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.pending.Wait()
	if b.ownsPool {
		b.pool.Stop()
	}
}

// emit 依序繪出快照；比已繪出者舊的快照直接丟棄
func (b *Board) emit(f frame) {
	if b.render == nil {
		return
	}
	b.renderMu.Lock()
	defer b.renderMu.Unlock()
	if f.version <= b.rendered {
		return
	}
	b.rendered = f.version
	b.render(f.board)
}

func (b *Board) frameLocked() frame {
	b.version++
	return frame{board: b.snapshotLocked(), version: b.version}
}

func (b *Board) snapshotLocked() *model.Board {
	return &model.Board{Columns: copyColumns(b.columns)}
}

func (b *Board) columnIndex(id string) int {
	for i := range b.columns {
		if b.columns[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) find(taskID string) (int, int) {
	for c := range b.columns {
		for i := range b.columns[c].Tasks {
			if b.columns[c].Tasks[i].ID == taskID {
				return c, i
			}
		}
	}
	return -1, -1
}

func copyColumns(in []model.BoardColumn) []model.BoardColumn {
	out := make([]model.BoardColumn, len(in))
	for i, col := range in {
		out[i] = col
		out[i].Tasks = append(make([]model.Task, 0, len(col.Tasks)), col.Tasks...)
	}
	return out
}

func clamp(i, limit int) int {
	if i < 0 {
		return 0
	}
	if i > limit {
		return limit
	}
	return i
}

func remove(tasks []model.Task, i int) []model.Task {
	return append(tasks[:i:i], tasks[i+1:]...)
}

func insert(tasks []model.Task, i int, task model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks)+1)
	out = append(out, tasks[:i]...)
	out = append(out, task)
	return append(out, tasks[i:]...)
}
