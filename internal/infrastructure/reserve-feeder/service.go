// Package reservefeeder streams shard reserve updates from a chain events
// websocket endpoint into a ports.ReserveSnapshot channel.
package reservefeeder

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/samm-network/samm-daemon/internal/core/ports"
)

type subscribeMsg struct {
	Event  string   `json:"event"`
	Shards []string `json:"shards"`
}

type reserveMsg struct {
	ShardId  string `json:"shard_id"`
	ReserveA uint64 `json:"reserve_a"`
	ReserveB uint64 `json:"reserve_b"`
	// Timestamp of the update, unix seconds.
	Timestamp int64 `json:"timestamp"`
}

type service struct {
	conn *websocket.Conn

	shardsMtx *sync.RWMutex
	shards    map[string]struct{}

	chLock   *sync.Mutex
	feedChan chan ports.ReserveSnapshot

	quitChan chan struct{}
}

// NewService opens a websocket connection against the given chain events
// endpoint and returns a reserve feeder ready to be started.
func NewService(endpoint string) (ports.ReserveFeeder, error) {
	conn, err := connect(endpoint)
	if err != nil {
		return nil, err
	}

	return &service{
		conn:      conn,
		shardsMtx: &sync.RWMutex{},
		shards:    make(map[string]struct{}),
		chLock:    &sync.Mutex{},
		feedChan:  make(chan ports.ReserveSnapshot),
		quitChan:  make(chan struct{}, 1),
	}, nil
}

func (s *service) SubscribeShards(shardIds []string) error {
	if err := s.conn.WriteJSON(subscribeMsg{
		Event:  "subscribe",
		Shards: shardIds,
	}); err != nil {
		return err
	}

	s.shardsMtx.Lock()
	defer s.shardsMtx.Unlock()
	for _, id := range shardIds {
		s.shards[id] = struct{}{}
	}
	return nil
}

func (s *service) UnSubscribeShards(shardIds []string) error {
	if err := s.conn.WriteJSON(subscribeMsg{
		Event:  "unsubscribe",
		Shards: shardIds,
	}); err != nil {
		return err
	}

	s.shardsMtx.Lock()
	defer s.shardsMtx.Unlock()
	for _, id := range shardIds {
		delete(s.shards, id)
	}
	return nil
}

func (s *service) Start() error {
	mustReconnect, err := s.start()
	for mustReconnect {
		log.WithError(err).Warn(
			"reserve feed connection dropped unexpectedly. Trying to reconnect...",
		)

		conn, err := connect(s.conn.RemoteAddr().String())
		if err != nil {
			return err
		}
		s.conn = conn

		if err := s.resubscribe(); err != nil {
			return err
		}

		log.Debug("reserve feed connection re-established. Restarting...")
		mustReconnect, err = s.start()
	}

	return err
}

func (s *service) Stop() {
	s.quitChan <- struct{}{}
}

func (s *service) FeedChan() chan ports.ReserveSnapshot {
	return s.feedChan
}

func (s *service) start() (mustReconnect bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			mustReconnect = true
		}
	}()

	for {
		select {
		case <-s.quitChan:
			s.closeChannels()
			err = s.conn.Close()
			return false, err
		default:
			// A dropped connection may panic inside ReadMessage instead
			// of returning an UnexpectedCloseError; recover above turns
			// both into a reconnection.
			_, message, err := s.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				) {
					panic(err)
				}
				continue
			}

			snapshot := s.parseFeed(message)
			if snapshot == nil {
				continue
			}

			s.chLock.Lock()
			s.feedChan <- *snapshot
			s.chLock.Unlock()
		}
	}
}

func (s *service) parseFeed(msg []byte) *ports.ReserveSnapshot {
	var m reserveMsg
	if err := json.Unmarshal(msg, &m); err != nil {
		return nil
	}
	if m.ShardId == "" || m.Timestamp <= 0 {
		return nil
	}
	if !s.isSubscribed(m.ShardId) {
		return nil
	}

	return &ports.ReserveSnapshot{
		ShardId:  m.ShardId,
		ReserveA: m.ReserveA,
		ReserveB: m.ReserveB,
		AsOf:     time.Unix(m.Timestamp, 0),
	}
}

func (s *service) isSubscribed(shardId string) bool {
	s.shardsMtx.RLock()
	defer s.shardsMtx.RUnlock()
	_, ok := s.shards[shardId]
	return ok
}

func (s *service) resubscribe() error {
	s.shardsMtx.RLock()
	ids := make([]string, 0, len(s.shards))
	for id := range s.shards {
		ids = append(ids, id)
	}
	s.shardsMtx.RUnlock()

	if len(ids) == 0 {
		return nil
	}
	return s.conn.WriteJSON(subscribeMsg{Event: "subscribe", Shards: ids})
}

func (s *service) closeChannels() {
	s.chLock.Lock()
	defer s.chLock.Unlock()

	close(s.feedChan)
	close(s.quitChan)
}

func connect(endpoint string) (*websocket.Conn, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		u = &url.URL{Scheme: "wss", Host: endpoint, Path: "/events"}
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
