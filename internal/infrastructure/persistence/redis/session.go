package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// SessionStore 会话存储
// 设计说明：
// 1. 使用Redis存储客户登录会话
// 2. 支持JWT黑名单（登出、强制下线）
// 3. Key设计：session:{customer_id}、blacklist:{token}
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存客户会话
// 过期时间与Refresh Token一致
func (s *SessionStore) SaveSession(ctx context.Context, customerID uint, data map[string]interface{}, ttl time.Duration) error {
	key := fmt.Sprintf("session:%d", customerID)

	if err := s.client.HSet(ctx, key, data).Err(); err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "设置会话过期时间失败")
	}
	return nil
}

// DeleteSession 删除客户会话（登出）
func (s *SessionStore) DeleteSession(ctx context.Context, customerID uint) error {
	key := fmt.Sprintf("session:%d", customerID)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
// 使用场景：登出、Token泄露后强制失效
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	key := fmt.Sprintf("blacklist:%s", token)
	if err := s.client.Set(ctx, key, 1, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "加入黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	key := fmt.Sprintf("blacklist:%s", token)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "查询黑名单失败")
	}
	return n > 0, nil
}
