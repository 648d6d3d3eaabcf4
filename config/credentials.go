package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"PaperArchiver/internal/venue"
)

const (
	EnvUsername = "OPENREVIEW_USERNAME"
	EnvPassword = "OPENREVIEW_PASSWORD"
)

// LoadCredentials 组装 OpenReview 凭据，优先级：环境变量 > .env > YAML 文件
// 文件都不存在时返回空凭据（访客访问）
func LoadCredentials(path string, envFiles ...string) (venue.Credentials, error) {
	var creds venue.Credentials

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &creds); err != nil {
				return venue.Credentials{}, fmt.Errorf("解析凭据文件 %s 失败: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return venue.Credentials{}, fmt.Errorf("读取凭据文件 %s 失败: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		vals, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return venue.Credentials{}, fmt.Errorf("读取 %s 失败: %w", f, err)
		}
		apply(&creds, vals[EnvUsername], vals[EnvPassword])
	}

	apply(&creds, os.Getenv(EnvUsername), os.Getenv(EnvPassword))
	return creds, nil
}

func apply(c *venue.Credentials, user, pass string) {
	if user != "" {
		c.Username = user
	}
	if pass != "" {
		c.Password = pass
	}
}
