package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
	"ucassist-backend/internal/auth"
	"ucassist-backend/internal/components/cipher"
	"ucassist-backend/internal/components/session/sessiontest"
	"ucassist-backend/internal/components/telemetry"
	"ucassist-backend/internal/models"

	"github.com/stretchr/testify/require"
)

type hits struct {
	gatewayRoot   atomic.Int32
	gatewayLogin  atomic.Int32
	portalSite    atomic.Int32
	identity      atomic.Int32
	anyScraperHit atomic.Int32
}

func newTestService(t testing.TB) (Service, *hits, *telemetry.Recorder) {
	h := &hits{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET sep.ucas.ac.cn/{$}", func(w http.ResponseWriter, r *http.Request) {
		h.gatewayRoot.Add(1)
		w.Header().Add("Set-Cookie", "sepuser=captcha")
		w.Write([]byte("<html>login</html>"))
	})
	mux.HandleFunc("POST sep.ucas.ac.cn/slogin", func(w http.ResponseWriter, r *http.Request) {
		h.gatewayLogin.Add(1)
		if r.FormValue("userName") == "good" {
			w.Write([]byte("网上缴费大厅"))
			return
		}
		w.Write([]byte("用户名或密码错误"))
	})
	mux.HandleFunc("GET sep.ucas.ac.cn/portal/site/226/821", func(w http.ResponseWriter, r *http.Request) {
		h.portalSite.Add(1)
		w.Write([]byte(`<a href="https://xkcts.ucas.ac.cn:8443/login?Identity=abc&roleId=1">jwxt</a>`))
	})
	mux.HandleFunc("GET xkcts.ucas.ac.cn/login", func(w http.ResponseWriter, r *http.Request) {
		h.identity.Add(1)
		w.Header().Add("Set-Cookie", "JSESSIONID=jw")
		http.Redirect(w, r, "/main", http.StatusFound)
	})
	mux.HandleFunc("app.ucas.ac.cn/timetable/", func(w http.ResponseWriter, r *http.Request) {
		h.anyScraperHit.Add(1)
	})
	mux.HandleFunc("GET app.ucas.ac.cn/exam/wap/default/info", func(w http.ResponseWriter, r *http.Request) {
		h.anyScraperHit.Add(1)
		w.Write([]byte(`{"d":{"0":{"course_name":"A","exame_type":"闭卷","location":"L","exame_start_time":"s","exame_end_time":"e"}}}`))
	})

	private, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&private.PublicKey)
	require.NoError(t, err)
	c, err := cipher.New(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
	require.NoError(t, err)

	tel := telemetry.SetupForTesting(t)
	s, err := NewService(
		WithTelemetry(tel),
		WithSessionConfig(sessiontest.NewConfig(t, mux)),
		WithCipher(c),
	)
	require.NoError(t, err)
	return s, h, tel
}

func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)
	return ctx
}

func TestNewServiceDefaultKey(t *testing.T) {
	_, err := NewService()
	require.NoError(t, err)
}

func TestFetchRejectsEmptyCookie(t *testing.T) {
	s, h, tel := newTestService(t)
	ctx := testContext(t)

	for _, env := range []models.Envelope{
		s.FetchCourses(ctx, ""),
		s.FetchExams(ctx, ""),
		s.FetchGrades(ctx, ""),
		s.FetchBooks(ctx, "", "go"),
		s.LoginTeachingAffairs(ctx, ""),
	} {
		require.Equal(t, models.Failure(), env)
	}
	require.Equal(t, int32(0), h.anyScraperHit.Load())
	require.Equal(t, int32(0), h.portalSite.Load())
	require.True(t, tel.HasWarning(report_fetch))
}

func TestFetchExams(t *testing.T) {
	s, _, _ := newTestService(t)

	env := s.FetchExams(testContext(t), "app=1")
	require.True(t, env.Ok())
	require.Equal(t, []models.Exam{{CourseName: "A", Method: "闭卷", Location: "L", Time: "s - e"}}, env.Data)
}

func TestFetchFailure(t *testing.T) {
	s, _, _ := newTestService(t)

	// the timetable handler answers with an empty body
	env := s.FetchCourses(testContext(t), "app=1")
	require.Equal(t, models.CODE_FAILURE, env.Code)
}

func TestLoginJwxt(t *testing.T) {
	s, h, _ := newTestService(t)

	env := s.LoginJwxt(testContext(t), "good", "pw", "", "")
	require.Equal(t, models.Success("JSESSIONID=jw"), env)
	require.Equal(t, int32(1), h.gatewayRoot.Load())
	require.Equal(t, int32(1), h.identity.Load())
}

func TestLoginJwxtShortCircuit(t *testing.T) {
	s, h, _ := newTestService(t)

	env := s.LoginJwxt(testContext(t), "bad", "pw", "1234", "sepuser=captcha")
	require.Equal(t, models.Failure(), env)
	require.Equal(t, int32(1), h.gatewayLogin.Load())
	require.Equal(t, int32(0), h.gatewayRoot.Load())
	require.Equal(t, int32(0), h.portalSite.Load())
	require.Equal(t, int32(0), h.identity.Load())
}

func TestLoginGatewayEnvelope(t *testing.T) {
	s, _, _ := newTestService(t)

	env := s.LoginGateway(testContext(t), "good", "pw", "", "sepuser=given")
	require.Equal(t, models.Success("sepuser=given"), env)
}

func TestCaptcha(t *testing.T) {
	s, h, _ := newTestService(t)
	ctx := testContext(t)

	for _, system := range []System{SYSTEM_SEP, SYSTEM_JWXT} {
		env := s.Captcha(ctx, system)
		require.Equal(t, models.Success(auth.CaptchaRequired{
			Url:    "https://sep.ucas.ac.cn/changePic",
			Cookie: "sepuser=captcha",
		}), env)
	}
	require.Equal(t, int32(2), h.gatewayRoot.Load())

	require.Equal(t, models.Failure(), s.Captcha(ctx, SYSTEM_APP))
	require.Equal(t, models.Failure(), s.Captcha(ctx, SYSTEM_LIB))
	require.Equal(t, models.Failure(), s.Captcha(ctx, "unknown"))

	out, err := s.Captcha(ctx, SYSTEM_SEP).Marshal()
	require.NoError(t, err)
	require.JSONEq(t, `{"code": 1, "data": {"url": "https://sep.ucas.ac.cn/changePic", "cookie": "sepuser=captcha"}}`, string(out))
}
