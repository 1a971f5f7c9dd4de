package fiberlog

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// getLogrusFields calls FuncTag functions on matching keys
func getLogrusFields(ftm map[string]FuncTag, c *fiber.Ctx, d *data) log.Fields {
	f := make(log.Fields)
	for k, ft := range ftm {
		value := ft(c, d)
		strValue, ok := value.(string)
		if ok {
			if strValue != "" {
				f[k] = strValue
			}
		} else {
			f[k] = value
		}
	}
	return f
}

// New creates a new middleware handler
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) == 0 {
		cfg = ConfigDefault
	} else {
		cfg = config[0]
	}
	pid := os.Getpid()
	ftm := getFuncTagMap(cfg)
	return func(c *fiber.Ctx) error {
		d := &data{
			pid:   pid,
			start: time.Now(),
		}
		err := c.Next()
		d.end = time.Now()
		d.err = err
		if c.Method() == fiber.MethodOptions || len(c.Response().Header.Peek(HeaderLogIgnore)) > 0 {
			c.Response().Header.Del(HeaderLogIgnore)
			return err
		}

		slow := cfg.SlowThreshold > 0 && d.end.Sub(d.start) > cfg.SlowThreshold
		message := getMessage(slow)
		var entity *log.Entry
		if cfg.Logger == nil {
			entity = log.WithFields(getLogrusFields(ftm, c, d))
		} else {
			entity = cfg.Logger.WithFields(getLogrusFields(ftm, c, d))
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			entity.Error(message)
		} else if status >= fiber.StatusMultipleChoices || slow {
			entity.Warn(message)
		} else {
			entity.Info(message)
		}
		return err
	}
}

func getMessage(slow bool) string {
	if slow {
		return "медленный запрос api"
	}
	return "запрос api"
}
