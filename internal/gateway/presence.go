package gateway

import (
	"context"
	"fmt"

	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"

	"github.com/ademaro/linka/pkg/constant"
)

// PresenceTracker maintains who is online. The registry is the local
// source of truth; the users table gets a durable status column for the
// REST surface, and Redis carries a TTL'd marker for multi-instance
// visibility. Every connect and disconnect rebroadcasts the full online
// id set so clients never have to patch deltas.
type PresenceTracker struct {
	registry *Registry
	status   PresenceStore
	rdb      *redis.Client
}

// NewPresenceTracker creates a new PresenceTracker
func NewPresenceTracker(registry *Registry, status PresenceStore, rdb *redis.Client) *PresenceTracker {
	return &PresenceTracker{
		registry: registry,
		status:   status,
		rdb:      rdb,
	}
}

// HandleConnect records a fresh connection as online and broadcasts the
// updated online set. The client must already be registered.
func (t *PresenceTracker) HandleConnect(ctx context.Context, client *Client) {
	if err := t.status.SetStatus(ctx, client.UserId, constant.StatusOnline); err != nil {
		log.CtxWarn(ctx, "set online status failed: user_id=%d, error=%v", client.UserId, err)
	}
	t.setOnline(ctx, client.UserId)
	t.BroadcastOnline(ctx)
}

// HandleDisconnect records a closed connection as offline and broadcasts
// the updated online set. Callers must only invoke it after the registry
// confirmed this client was the live one; a displaced connection going
// away must not mark its successor offline.
func (t *PresenceTracker) HandleDisconnect(ctx context.Context, client *Client) {
	if err := t.status.SetStatus(ctx, client.UserId, constant.StatusOffline); err != nil {
		log.CtxWarn(ctx, "set offline status failed: user_id=%d, error=%v", client.UserId, err)
	}
	t.setOffline(ctx, client.UserId)
	t.BroadcastOnline(ctx)
}

// HandleActivity processes a userActivity ping: refreshes last-seen and
// the Redis liveness marker, and optionally switches the durable status.
func (t *PresenceTracker) HandleActivity(ctx context.Context, client *Client, data *UserActivityData) error {
	if data.Status != "" {
		if !constant.ValidStatus(data.Status) {
			return ErrInvalidEvent
		}
		if err := t.status.SetStatus(ctx, client.UserId, data.Status); err != nil {
			log.CtxWarn(ctx, "set status failed: user_id=%d, status=%s, error=%v", client.UserId, data.Status, err)
		}
	} else {
		if err := t.status.TouchLastSeen(ctx, client.UserId); err != nil {
			log.CtxDebug(ctx, "touch last seen failed: user_id=%d, error=%v", client.UserId, err)
		}
	}

	t.refreshOnline(ctx, client.UserId)
	return nil
}

// BroadcastOnline pushes the full online id set to every connection
func (t *PresenceTracker) BroadcastOnline(ctx context.Context) {
	ids := t.registry.OnlineIds()
	frame, err := Encode(EvtOnlineUsers, &OnlineUsersData{UserIds: ids})
	if err != nil {
		log.CtxError(ctx, "encode online users failed: %v", err)
		return
	}

	for _, client := range t.registry.Snapshot() {
		if err := client.PushRaw(frame); err != nil {
			log.CtxDebug(ctx, "push online users failed: user_id=%d, error=%v", client.UserId, err)
		}
	}
}

// IsOnline checks whether userId is online, locally first and then via
// the Redis marker for peers connected to other instances.
func (t *PresenceTracker) IsOnline(ctx context.Context, userId int64) bool {
	if t.registry.Lookup(userId) != nil {
		return true
	}

	if t.rdb != nil {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		exists, _ := t.rdb.Exists(ctx, key).Result()
		return exists > 0
	}

	return false
}

// setOnline marks user as online in Redis
func (t *PresenceTracker) setOnline(ctx context.Context, userId int64) {
	if t.rdb == nil {
		return
	}

	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	t.rdb.Set(ctx, key, "1", OnlineKeyTTL)
}

// setOffline marks user as offline in Redis
func (t *PresenceTracker) setOffline(ctx context.Context, userId int64) {
	if t.rdb == nil {
		return
	}

	key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
	t.rdb.Del(ctx, key)
}

// refreshOnline extends the online marker TTL
func (t *PresenceTracker) refreshOnline(ctx context.Context, userId int64) {
	if t.rdb == nil {
		return
	}

	if t.registry.Lookup(userId) != nil {
		key := fmt.Sprintf(constant.RedisKeyOnline(), userId)
		t.rdb.Expire(ctx, key, OnlineKeyTTL)
	}
}
