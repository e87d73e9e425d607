package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"argshell/pkg/argtypes"
)

const (
	redisAppsKey   = "argshell:apps"
	redisTypesBase = "argshell:types:"
)

// RedisStore keeps one hash per application, suffix to JSON configuration,
// plus a set naming the applications.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to the given Redis URL.
func NewRedisStore(addr string) (*RedisStore, error) {
	opts, err := parseRedisURL(addr)
	if err != nil {
		return nil, err
	}
	c := redis.NewUniversalClient(opts)
	if err := c.Ping(context.Background()).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return &RedisStore{client: c}, nil
}

// parseRedisURL parses addr into UniversalOptions supporting single, cluster,
// and sentinel Redis deployments. If no scheme is present, addr is treated as
// a plain host:port string.
func parseRedisURL(addr string) (*redis.UniversalOptions, error) {
	if !strings.Contains(addr, "://") {
		return &redis.UniversalOptions{Addrs: []string{addr}}, nil
	}

	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}

	opts := &redis.UniversalOptions{}
	if u.User != nil {
		opts.Username = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			opts.Password = pw
		}
	}
	opts.Addrs = strings.Split(u.Host, ",")

	q := u.Query()
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	switch u.Scheme {
	case "redis", "rediss":
		db := q.Get("db")
		if u.Path != "" && u.Path != "/" {
			db = strings.TrimPrefix(u.Path, "/")
		}
		if opts.DB, err = parseDB(db); err != nil {
			return nil, err
		}
		if u.Scheme == "rediss" {
			opts.TLSConfig = tlsCfg
		}
	case "redis-sentinel", "rediss-sentinel":
		opts.MasterName = strings.TrimPrefix(u.Path, "/")
		if opts.DB, err = parseDB(q.Get("db")); err != nil {
			return nil, err
		}
		opts.SentinelUsername = q.Get("sentinel_username")
		opts.SentinelPassword = q.Get("sentinel_password")
		if u.Scheme == "rediss-sentinel" {
			opts.TLSConfig = tlsCfg
		}
	default:
		return nil, fmt.Errorf("redis: invalid URL scheme: %s", u.Scheme)
	}

	return opts, nil
}

func parseDB(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	db, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("redis: invalid db: %v", err)
	}
	return db, nil
}

func typesKey(app string) string { return redisTypesBase + app }

func (r *RedisStore) Load(ctx context.Context, app string) ([]Definition, error) {
	fields, err := r.client.HGetAll(ctx, typesKey(app)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	defs := make([]Definition, 0, len(fields))
	for suffix, raw := range fields {
		cfg, err := argtypes.ParseConfigMap([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("redis store: type %q: %w", suffix, err)
		}
		defs = append(defs, Definition{Suffix: suffix, Config: cfg})
	}
	sortDefinitions(defs)
	return defs, nil
}

func (r *RedisStore) Save(ctx context.Context, app string, defs []Definition) error {
	if err := validate(app, defs); err != nil {
		return err
	}
	if len(defs) == 0 {
		return nil
	}
	values := make([]any, 0, 2*len(defs))
	for _, def := range defs {
		data, err := def.Config.MarshalJSON()
		if err != nil {
			return fmt.Errorf("redis store: type %q: %w", def.Suffix, err)
		}
		values = append(values, def.Suffix, string(data))
	}
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, typesKey(app), values...)
		p.SAdd(ctx, redisAppsKey, app)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis store: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, app, suffix string) error {
	if err := r.client.HDel(ctx, typesKey(app), suffix).Err(); err != nil {
		return fmt.Errorf("redis store: %w", err)
	}
	n, err := r.client.HLen(ctx, typesKey(app)).Result()
	if err != nil {
		return fmt.Errorf("redis store: %w", err)
	}
	if n == 0 {
		if err := r.client.SRem(ctx, redisAppsKey, app).Err(); err != nil {
			return fmt.Errorf("redis store: %w", err)
		}
	}
	return nil
}

func (r *RedisStore) Apps(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, redisAppsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis store: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (r *RedisStore) Close() error { return r.client.Close() }
