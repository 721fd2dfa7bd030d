package handle

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/greenparkpeyzaj/greenpark/pkg/context"
	"github.com/greenparkpeyzaj/greenpark/pkg/errs"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/rpc"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/types"
	"github.com/greenparkpeyzaj/greenpark/pkg/middleware"
)

// Login 校验凭据并写入会话 Cookie，校验规则与 auth.signIn 相同.
//
//	@Summary	登录
//	@Tags		会话
//	@Accept		json
//	@Produce	json
//	@Param		credentials	body		types.SignInInput	true	"邮箱与密码"
//	@Success	200			{object}	types.SessionOutput
//	@Failure	400			{object}	map[string]string
//	@Failure	401			{object}	map[string]string
//	@Router		/api/auth/login [post]
func (h *Handlers) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, rpc.MaxBodyBytes))
		if err != nil {
			middleware.AbortWithError(c, errs.Wrap(errs.KindInvalidRequest, "", err))
			return
		}

		out, err := h.procedures.Call(ctx, "auth.signIn", rpc.KindMutation, raw, ctxPkg.GetLocale(ctx))
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}

		session, ok := out.(types.SessionOutput)
		if !ok {
			middleware.AbortWithError(c, errs.New(errs.KindInternalFailure, ""))
			return
		}

		h.setSessionCookie(c, session.Token, int(h.config().Auth.SessionTTL.Seconds()))
		c.JSON(http.StatusOK, session)
	}
}

// Logout 清除会话 Cookie. 令牌本身无状态，过期前仍然有效.
//
//	@Summary	退出登录
//	@Tags		会话
//	@Produce	json
//	@Success	200	{object}	types.SuccessOutput
//	@Router		/api/auth/logout [post]
func (h *Handlers) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.setSessionCookie(c, "", -1)
		c.JSON(http.StatusOK, types.SuccessOutput{Success: true})
	}
}

func (h *Handlers) setSessionCookie(c *gin.Context, value string, maxAge int) {
	cfg := h.config().Auth

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, value, maxAge, "/", "", cfg.CookieSecure, true)
}
