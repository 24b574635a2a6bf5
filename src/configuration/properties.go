package configuration

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type (
	Properties struct {
		LogLevel    string `env:"LOG_LEVEL" envDefault:"DEBUG"`
		EnablePprof bool   `env:"ENABLE_PPROF" envDefault:"false"`

		DB     DBProperties         `envPrefix:"DB_"`
		JWT    JWTProperties        `envPrefix:"JWT_"`
		Google GoogleProperties     `envPrefix:"GOOGLE_"`
		Server HttpServerProperties `envPrefix:"SERVER_"`
		Upload UploadProperties     `envPrefix:"UPLOAD_"`
		S3     S3Properties         `envPrefix:"S3_"`
		Rate   RateLimitProperties  `envPrefix:"RATE_"`
	}

	DBProperties struct {
		URL            string        `env:"URL" envDefault:"mongodb://localhost:27017"`
		Name           string        `env:"NAME" envDefault:"socialserv"`
		ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
	}

	JWTProperties struct {
		Secret        string        `env:"SECRET"`
		RefreshSecret string        `env:"REFRESH_SECRET"`
		Expiration    time.Duration `env:"EXPIRATION" envDefault:"10m"`
	}

	GoogleProperties struct {
		ClientID     string `env:"CLIENT_ID"`
		ClientSecret string `env:"CLIENT_SECRET"`
		Redirect     string `env:"REDIRECT_URL"`
	}

	HttpServerProperties struct {
		// URL is the public base used to build links to uploaded files.
		URL         string        `env:"URL" envDefault:"http://localhost:3000"`
		Port        string        `env:"PORT" envDefault:"3000"`
		HTTPSPort   string        `env:"HTTPS_PORT"`
		TLSCert     string        `env:"TLS_CERT"`
		TLSKey      string        `env:"TLS_KEY"`
		ReadTimeout time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	}

	UploadProperties struct {
		// Backend selects where uploaded files land: "disk" or "s3".
		Backend string `env:"BACKEND" envDefault:"disk"`
		Dir     string `env:"DIR" envDefault:"public"`
	}

	S3Properties struct {
		Host      string `env:"HOST" envDefault:"https://s3.minio.com"`
		AccessKey string `env:"ACCESS_KEY"`
		SecretKey string `env:"SECRET_KEY"`
		Bucket    string `env:"BUCKET" envDefault:"socialserv"`
		UseSSL    bool   `env:"USE_SSL" envDefault:"true"`
	}

	RateLimitProperties struct {
		Enabled bool    `env:"LIMIT_ENABLED" envDefault:"false"`
		RPS     float64 `env:"LIMIT_RPS" envDefault:"10"`
		Burst   int     `env:"LIMIT_BURST" envDefault:"20"`
	}
)

func ReadProperties() *Properties {
	config := &Properties{}

	if err := env.Parse(config); err != nil {
		panic(fmt.Errorf("read config error: %w", err))
	}
	return config
}
