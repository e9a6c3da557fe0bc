package customer

import (
	"context"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Service 客户领域服务
// 设计说明:
// 1. 包含不属于单个实体的业务逻辑(密码加密、验证)
// 2. 依赖Repository接口,不依赖具体实现
type Service interface {
	// Register 客户注册
	Register(ctx context.Context, email, password, name string) (*Customer, error)

	// Login 客户登录
	Login(ctx context.Context, email, password string) (*Customer, error)
}

type service struct {
	repo Repository
}

// NewService 创建客户服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 客户注册
// 业务规则:
// 1. 邮箱格式校验,唯一性由数据库UNIQUE索引保证
// 2. 密码强度校验(8-20位,包含字母和数字)
// 3. 密码bcrypt加密(cost=12)
func (s *service) Register(ctx context.Context, email, password, name string) (*Customer, error) {
	if !emailPattern.MatchString(email) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}
	if len(name) < 2 || len(name) > 50 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "姓名长度应为2-50个字符")
	}

	// bcrypt自动加盐,cost=12平衡安全性与性能
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	c := New(email, string(hashed), name)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Login 客户登录
func (s *service) Login(ctx context.Context, email, password string) (*Customer, error) {
	c, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidPassword
	}
	return c, nil
}

// validatePasswordStrength 密码强度校验:8-20位,至少包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.New(apperrors.ErrCodeWeakPassword, "密码长度应为8-20位")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.New(apperrors.ErrCodeWeakPassword, "密码必须同时包含字母和数字")
	}
	return nil
}
