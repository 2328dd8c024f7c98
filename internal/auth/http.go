package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/mvp-studio/mvp-planner-backend/internal/users"
)

type Handler struct {
	users      *users.Repo
	store      *SessionStore
	cookieName string
	secure     bool
}

func NewHandler(userRepo *users.Repo, store *SessionStore, cookieName string, secure bool) *Handler {
	return &Handler{
		users:      userRepo,
		store:      store,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Register mounts the auth routes. The /user route carries its own guard so
// the register/login/logout routes stay public.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
	rg.GET("/user", RequireUser(h.store, h.cookieName), h.currentUser)
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *credentialsReq) normalize() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return errors.New("username and password are required")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := req.normalize(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "registration failed"})
		return
	}

	u, err := h.users.Create(c.Request.Context(), req.Username, string(hash))
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "username already exists"})
			return
		}
		log.Printf("[auth] register failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "registration failed"})
		return
	}

	h.startSession(c, u)
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	u, err := h.users.GetByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		// Same message for unknown user and wrong password.
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid username or password"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid username or password"})
		return
	}

	h.startSession(c, u)
}

func (h *Handler) logout(c *gin.Context) {
	if sid, err := c.Cookie(h.cookieName); err == nil && sid != "" {
		if err := h.store.Delete(c.Request.Context(), sid); err != nil {
			log.Printf("[auth] logout: %v", err)
		}
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) currentUser(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"user": gin.H{"id": UserID(c), "username": Username(c)},
	})
}

func (h *Handler) startSession(c *gin.Context, u *users.User) {
	sess, err := h.store.Create(c.Request.Context(), u.ID, u.Username)
	if err != nil {
		log.Printf("[auth] create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not start session"})
		return
	}

	maxAge := int(h.store.TTL().Seconds())
	c.SetCookie(h.cookieName, sess.ID, maxAge, "/", "", h.secure, true)
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"user": gin.H{"id": u.ID, "username": u.Username},
	})
}
