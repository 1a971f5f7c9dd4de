package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid       = "pid"
	TagStatus    = "status"
	TagLatency   = "latency"
	TagMethod    = "method"
	TagPath      = "path"
	TagIP        = "ip"
	TagBytesSent = "bytes_sent"
	TagBytesRecv = "bytes_recv"
	TagRoute     = "route"
	TagError     = "error"
)

// HeaderLogIgnore заголовок ответа, отключающий логирование запроса (опрос статусов и тп)
const HeaderLogIgnore = "X-Log-Ignore"

// data данные одного запроса
type data struct {
	pid   int
	start time.Time
	end   time.Time
	err   error
}

// FuncTag значение поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagBytesSent: func(c *fiber.Ctx, d *data) interface{} {
			return len(c.Response().Body())
		},
		TagBytesRecv: func(c *fiber.Ctx, d *data) interface{} {
			return len(c.Request().Body())
		},
		TagRoute: func(c *fiber.Ctx, d *data) interface{} {
			return c.Route().Path
		},
		TagError: func(c *fiber.Ctx, d *data) interface{} {
			if d.err == nil {
				return ""
			}
			return d.err.Error()
		},
	}
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}
