// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	keyPrefix         = "tag_engine:"
	gameKeyPrefix     = keyPrefix + "game:"
	joinCodeKeyPrefix = keyPrefix + "join_code:"
	locationKeyPrefix = keyPrefix + "location:"
	playerGamesPrefix = keyPrefix + "player_games:"
	activeGamesKey    = keyPrefix + "games:active"

	defaultCallTimeout    = 2 * time.Second
	defaultMaxAttempts    = 4
	defaultInitialBackoff = 50 * time.Millisecond
)

func gameKey(gameID string) string {
	return gameKeyPrefix + gameID
}

func playerKey(gameID, playerID string) string {
	return fmt.Sprintf("%s%s:player:%s", gameKeyPrefix, gameID, playerID)
}

func joinCodeKey(code string) string {
	return joinCodeKeyPrefix + code
}

func locationKey(playerID string) string {
	return locationKeyPrefix + playerID
}

func playerGamesKey(playerID string) string {
	return playerGamesPrefix + playerID
}

// RedisStoreConfig bounds every store call.
type RedisStoreConfig struct {
	CallTimeout    time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
}

// RedisStore implements GameStore and LocationStore on Redis. Each player is a
// separate key so strike and inventory updates run as WATCH/MULTI transactions
// scoped to one player document.
type RedisStore struct {
	client *redis.Client
	cfg    RedisStoreConfig
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, cfg RedisStoreConfig) *RedisStore {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	return &RedisStore{client: client, cfg: cfg}
}

// permanent marks an error that must not be retried.
func permanent(err error) error {
	return backoff.Permanent(err)
}

// do runs op with a per-attempt timeout and retries transient failures,
// including optimistic transaction conflicts. Errors that survive the budget
// are reported as game.ErrStoreUnavailable.
func (r *RedisStore) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = r.cfg.InitialBackoff
	eb.MaxInterval = 20 * r.cfg.InitialBackoff
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(r.cfg.MaxAttempts-1)), ctx)

	isPermanent := false
	err := backoff.Retry(func() error {
		callCtx, cancel := context.WithTimeout(ctx, r.cfg.CallTimeout)
		defer cancel()

		err := fn(callCtx)
		if err == nil {
			return nil
		}

		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			isPermanent = true
			return err
		}

		metrics.StoreRetriesTotal.WithLabelValues(op).Inc()
		logrus.Warnf("store %s failed: %v, retrying...", op, err)
		return err
	}, policy)

	if err == nil || isPermanent {
		return err
	}
	logrus.Errorf("store %s gave up: %v", op, err)
	return fmt.Errorf("%w: %s: %v", game.ErrStoreUnavailable, op, err)
}

// CreateGame reserves the join code and writes the meta and player documents.
func (r *RedisStore) CreateGame(ctx context.Context, g *game.Game) error {
	meta, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}
	players := make(map[string][]byte, len(g.Players))
	for id, ps := range g.Players {
		data, err := json.Marshal(ps)
		if err != nil {
			return fmt.Errorf("failed to marshal player %s: %w", id, err)
		}
		players[id] = data
	}

	return r.do(ctx, "create_game", func(ctx context.Context) error {
		ok, err := r.client.SetNX(ctx, joinCodeKey(g.JoinCode), g.ID, 0).Result()
		if err != nil {
			return err
		}
		if !ok {
			owner, err := r.client.Get(ctx, joinCodeKey(g.JoinCode)).Result()
			if err != nil {
				return err
			}
			// a retried attempt may find its own reservation
			if owner != g.ID {
				return permanent(fmt.Errorf("%w: %s", game.ErrJoinCodeTaken, g.JoinCode))
			}
		}

		_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey(g.ID), meta, 0)
			for id, data := range players {
				pipe.Set(ctx, playerKey(g.ID, id), data, 0)
				pipe.SAdd(ctx, playerGamesKey(id), g.ID)
			}
			if g.Status == game.StatusActive {
				pipe.SAdd(ctx, activeGamesKey, g.ID)
			}
			return nil
		})
		if err == nil {
			logrus.Infof("created game %s with join code %s", g.ID, g.JoinCode)
		}
		return err
	})
}

// GetGame loads the meta document and every player document.
func (r *RedisStore) GetGame(ctx context.Context, gameID string) (*game.Game, error) {
	var g *game.Game
	err := r.do(ctx, "get_game", func(ctx context.Context) error {
		loaded, err := loadGame(ctx, r.client, gameID)
		if err != nil {
			return err
		}
		if err := loadPlayers(ctx, r.client, loaded); err != nil {
			return err
		}
		g = loaded
		return nil
	})
	return g, err
}

// GetGameByJoinCode resolves a join code and loads the game.
func (r *RedisStore) GetGameByJoinCode(ctx context.Context, code string) (*game.Game, error) {
	var gameID string
	err := r.do(ctx, "resolve_join_code", func(ctx context.Context) error {
		id, err := r.client.Get(ctx, joinCodeKey(code)).Result()
		if err == redis.Nil {
			return permanent(fmt.Errorf("%w: join code %s", game.ErrGameNotFound, code))
		}
		if err != nil {
			return err
		}
		gameID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetGame(ctx, gameID)
}

// AddPlayer appends a player to a waiting game that still has room.
func (r *RedisStore) AddPlayer(ctx context.Context, gameID string, ps *game.PlayerState, maxPlayers int) (*game.Game, error) {
	data, err := json.Marshal(ps)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player %s: %w", ps.PlayerID, err)
	}

	err = r.do(ctx, "add_player", func(ctx context.Context) error {
		return r.client.Watch(ctx, func(tx *redis.Tx) error {
			g, err := loadGame(ctx, tx, gameID)
			if err != nil {
				return err
			}
			if g.Status != game.StatusWaiting {
				return permanent(fmt.Errorf("%w: game %s is %s", game.ErrGameNotWaiting, gameID, g.Status))
			}
			if g.HasPlayer(ps.PlayerID) {
				return permanent(fmt.Errorf("%w: %s in game %s", game.ErrAlreadyJoined, ps.PlayerID, gameID))
			}
			if len(g.PlayerIDs) >= maxPlayers {
				return permanent(fmt.Errorf("%w: game %s has %d players", game.ErrGameFull, gameID, len(g.PlayerIDs)))
			}

			g.PlayerIDs = append(g.PlayerIDs, ps.PlayerID)
			meta, err := json.Marshal(g)
			if err != nil {
				return permanent(err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, gameKey(gameID), meta, 0)
				pipe.Set(ctx, playerKey(gameID, ps.PlayerID), data, 0)
				pipe.SAdd(ctx, playerGamesKey(ps.PlayerID), gameID)
				return nil
			})
			return err
		}, gameKey(gameID))
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("player %s joined game %s", ps.PlayerID, gameID)
	return r.GetGame(ctx, gameID)
}

// UpdatePlayer applies fn to one player document atomically.
func (r *RedisStore) UpdatePlayer(ctx context.Context, gameID, playerID string, fn PlayerMutator) (*game.PlayerState, error) {
	key := playerKey(gameID, playerID)
	var out *game.PlayerState

	err := r.do(ctx, "update_player", func(ctx context.Context) error {
		return r.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err == redis.Nil {
				return permanent(fmt.Errorf("%w: %s in game %s", game.ErrPlayerNotFound, playerID, gameID))
			}
			if err != nil {
				return err
			}

			var ps game.PlayerState
			if err := json.Unmarshal(data, &ps); err != nil {
				return permanent(fmt.Errorf("failed to unmarshal player %s: %w", playerID, err))
			}
			if err := fn(&ps); err != nil {
				return permanent(err)
			}

			encoded, err := json.Marshal(&ps)
			if err != nil {
				return permanent(err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, encoded, 0)
				return nil
			})
			if err != nil {
				return err
			}
			out = &ps
			return nil
		}, key)
	})
	return out, err
}

// UpdateGame applies fn to the game meta. Every player key is watched so the
// decision fn makes (start, completion) is based on a consistent snapshot.
func (r *RedisStore) UpdateGame(ctx context.Context, gameID string, fn GameMutator) (*game.Game, error) {
	var out *game.Game

	err := r.do(ctx, "update_game", func(ctx context.Context) error {
		return r.client.Watch(ctx, func(tx *redis.Tx) error {
			g, err := loadGame(ctx, tx, gameID)
			if err != nil {
				return err
			}

			keys := make([]string, len(g.PlayerIDs))
			for i, id := range g.PlayerIDs {
				keys[i] = playerKey(gameID, id)
			}
			if len(keys) > 0 {
				if err := tx.Watch(ctx, keys...).Err(); err != nil {
					return err
				}
			}
			if err := loadPlayers(ctx, tx, g); err != nil {
				return err
			}

			if err := fn(g); err != nil {
				return permanent(err)
			}

			meta, err := json.Marshal(g)
			if err != nil {
				return permanent(err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, gameKey(gameID), meta, 0)
				if g.Status == game.StatusActive {
					pipe.SAdd(ctx, activeGamesKey, gameID)
				} else {
					pipe.SRem(ctx, activeGamesKey, gameID)
				}
				return nil
			})
			if err != nil {
				return err
			}
			out = g
			return nil
		}, gameKey(gameID))
	})
	return out, err
}

// GamesForPlayer lists every game the player joined.
func (r *RedisStore) GamesForPlayer(ctx context.Context, playerID string) ([]string, error) {
	var ids []string
	err := r.do(ctx, "games_for_player", func(ctx context.Context) error {
		res, err := r.client.SMembers(ctx, playerGamesKey(playerID)).Result()
		if err != nil {
			return err
		}
		ids = res
		return nil
	})
	return ids, err
}

// ActiveGameIDs lists games currently in the active state.
func (r *RedisStore) ActiveGameIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.do(ctx, "active_games", func(ctx context.Context) error {
		res, err := r.client.SMembers(ctx, activeGamesKey).Result()
		if err != nil {
			return err
		}
		ids = res
		return nil
	})
	return ids, err
}

// GetLocation returns the last uploaded location for a player.
func (r *RedisStore) GetLocation(ctx context.Context, playerID string) (*game.LocationRecord, error) {
	var rec *game.LocationRecord
	err := r.do(ctx, "get_location", func(ctx context.Context) error {
		data, err := r.client.Get(ctx, locationKey(playerID)).Bytes()
		if err == redis.Nil {
			return permanent(fmt.Errorf("%w: %s", game.ErrLocationUnavailable, playerID))
		}
		if err != nil {
			return err
		}
		var loaded game.LocationRecord
		if err := json.Unmarshal(data, &loaded); err != nil {
			return permanent(fmt.Errorf("failed to unmarshal location for %s: %w", playerID, err))
		}
		rec = &loaded
		return nil
	})
	return rec, err
}

// PutLocation atomically swaps in rec and returns the previous record.
func (r *RedisStore) PutLocation(ctx context.Context, rec game.LocationRecord) (*game.LocationRecord, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal location: %w", err)
	}

	var prev *game.LocationRecord
	err = r.do(ctx, "put_location", func(ctx context.Context) error {
		old, err := r.client.GetSet(ctx, locationKey(rec.PlayerID), data).Bytes()
		if err == redis.Nil {
			prev = nil
			return nil
		}
		if err != nil {
			return err
		}
		var loaded game.LocationRecord
		if err := json.Unmarshal(old, &loaded); err != nil {
			logrus.Warnf("discarding unreadable previous location for %s: %v", rec.PlayerID, err)
			prev = nil
			return nil
		}
		prev = &loaded
		return nil
	})
	return prev, err
}

func loadGame(ctx context.Context, c redis.Cmdable, gameID string) (*game.Game, error) {
	data, err := c.Get(ctx, gameKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, permanent(fmt.Errorf("%w: %s", game.ErrGameNotFound, gameID))
	}
	if err != nil {
		return nil, err
	}
	var g game.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, permanent(fmt.Errorf("failed to unmarshal game %s: %w", gameID, err))
	}
	return &g, nil
}

func loadPlayers(ctx context.Context, c redis.Cmdable, g *game.Game) error {
	g.Players = make(map[string]*game.PlayerState, len(g.PlayerIDs))
	if len(g.PlayerIDs) == 0 {
		return nil
	}

	keys := make([]string, len(g.PlayerIDs))
	for i, id := range g.PlayerIDs {
		keys[i] = playerKey(g.ID, id)
	}
	values, err := c.MGet(ctx, keys...).Result()
	if err != nil {
		return err
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			logrus.Warnf("game %s lists player %s without a player document", g.ID, g.PlayerIDs[i])
			continue
		}
		var ps game.PlayerState
		if err := json.Unmarshal([]byte(s), &ps); err != nil {
			return permanent(fmt.Errorf("failed to unmarshal player %s: %w", g.PlayerIDs[i], err))
		}
		g.Players[g.PlayerIDs[i]] = &ps
	}
	return nil
}
