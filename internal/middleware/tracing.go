package middleware

import (
	"github.com/haierkeys/fast-vault-sync-service/pkg/app"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

// Tracing starts one opentracing span per request. The span rides on the
// request context so gorm queries issued by the handler become its children.
// Tracing 为每个请求创建 opentracing span，并挂到 request context 上
func Tracing() gin.HandlerFunc {
	return func(c *gin.Context) {
		tracer := opentracing.GlobalTracer()

		var opts []opentracing.StartSpanOption
		carrier := opentracing.HTTPHeadersCarrier(c.Request.Header)
		if parent, err := tracer.Extract(opentracing.HTTPHeaders, carrier); err == nil {
			opts = append(opts, opentracing.ChildOf(parent))
		}

		span := tracer.StartSpan(c.Request.Method+" "+c.FullPath(), opts...)
		defer span.Finish()

		ext.HTTPMethod.Set(span, c.Request.Method)
		ext.HTTPUrl.Set(span, c.Request.URL.Path)
		ext.SpanKindRPCServer.Set(span)
		if traceID := GetTraceIDFromGin(c); traceID != "" {
			span.SetTag(TraceIDKey, traceID)
		}

		c.Request = c.Request.WithContext(opentracing.ContextWithSpan(c.Request.Context(), span))
		c.Next()

		status := c.Writer.Status()
		ext.HTTPStatusCode.Set(span, uint16(status))
		if uid := app.GetUID(c); uid != "" {
			span.SetTag("uid", uid)
		}
		if status >= 500 {
			ext.Error.Set(span, true)
		}
	}
}
