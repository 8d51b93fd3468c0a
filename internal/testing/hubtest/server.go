// Package hubtest provides an in-process fake hub for exercising the client
// against real HTTP round trips and cookie based sessions.
package hubtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stellarbit/hubclient/internal/common"
	"github.com/stellarbit/hubclient/internal/models"
)

const (
	SessionCookieName = "hub_session"

	sessionUserKey       = "user_id"
	sessionGenerationKey = "generation"
)

type user struct {
	models.UserData
	password string
}

type tokenKey struct {
	serverID int64
	userID   int64
}

type Hub struct {
	server *httptest.Server

	mu          sync.Mutex
	users       map[string]user
	servers     map[int64]*models.ServerDetails
	serverOrder []int64
	tokens      map[tokenKey]string
	generation  int
	hits        map[string]int
	overrides   map[string]int
	logins      int
	loginStatus int
	loginGate   chan struct{}
}

// New starts a fake hub that is shut down when the test ends.
func New(t testing.TB) *Hub {
	t.Helper()

	gin.SetMode(gin.TestMode)

	h := &Hub{
		users:     map[string]user{},
		servers:   map[int64]*models.ServerDetails{},
		tokens:    map[tokenKey]string{},
		hits:      map[string]int{},
		overrides: map[string]int{},
	}

	h.server = httptest.NewServer(h.router())
	t.Cleanup(h.server.Close)

	return h
}

func (h *Hub) URL() string {
	return h.server.URL + "/"
}

func (h *Hub) AddUser(id int64, username, password string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users[username] = user{UserData: models.UserData{Username: username, ID: id}, password: password}
}

func (h *Hub) AddServer(server models.ServerDetails) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.servers[server.ID]; !ok {
		h.serverOrder = append(h.serverOrder, server.ID)
	}
	h.servers[server.ID] = &server
}

func (h *Hub) Server(id int64) (models.ServerDetails, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	server, ok := h.servers[id]
	if !ok {
		return models.ServerDetails{}, false
	}
	return *server, true
}

// ExpireSessions invalidates every session issued so far.
func (h *Hub) ExpireSessions() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.generation++
}

// SetStatus makes every request to the exact path answer with status.
// A zero status removes the override.
func (h *Hub) SetStatus(path string, status int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if status == 0 {
		delete(h.overrides, path)
		return
	}
	h.overrides[path] = status
}

// SetLoginStatus forces the login endpoint to answer with status.
func (h *Hub) SetLoginStatus(status int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loginStatus = status
}

// HoldLogins makes login requests wait until the returned release func is
// called. Released automatically when the test ends.
func (h *Hub) HoldLogins(t testing.TB) (release func()) {
	t.Helper()

	gate := make(chan struct{})
	h.mu.Lock()
	h.loginGate = gate
	h.mu.Unlock()

	var once sync.Once
	release = func() {
		once.Do(func() {
			h.mu.Lock()
			h.loginGate = nil
			h.mu.Unlock()
			close(gate)
		})
	}
	t.Cleanup(release)

	return release
}

// Hits returns how many requests reached path, login included.
func (h *Hub) Hits(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[path]
}

// Logins returns how many logins succeeded.
func (h *Hub) Logins() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.logins
}

func (h *Hub) router() *gin.Engine {
	store := cookie.NewStore([]byte("hubtest-secret"))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
	})

	r := gin.New()
	r.Use(sessions.Sessions(SessionCookieName, store))
	r.Use(h.countHits)

	api := r.Group("/api")
	api.POST("/login", h.postLogin)

	authed := api.Group("/", h.applyOverrides, h.requireSession)
	authed.GET("/servers", h.getServers)
	authed.POST("/servers/keep_alive/:server_id/:server_addr", h.postKeepAlive)
	authed.GET("/servers/access/:server_id", h.getAccess)
	authed.GET("/servers/verify/:server_id/:user_id/:token", h.getVerify)
	authed.GET("/users/*path", h.getUser)

	return r
}

func (h *Hub) countHits(c *gin.Context) {
	h.mu.Lock()
	h.hits[c.Request.URL.Path]++
	h.mu.Unlock()
	c.Next()
}

func (h *Hub) applyOverrides(c *gin.Context) {
	h.mu.Lock()
	status, ok := h.overrides[c.Request.URL.Path]
	h.mu.Unlock()

	if ok {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Next()
}

func (h *Hub) requireSession(c *gin.Context) {
	session := sessions.Default(c)

	userID, ok := session.Get(sessionUserKey).(int64)
	generation, genOk := session.Get(sessionGenerationKey).(int)

	h.mu.Lock()
	current := h.generation
	h.mu.Unlock()

	if !ok || !genOk || generation != current {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.Set(sessionUserKey, userID)
	c.Next()
}

func (h *Hub) postLogin(c *gin.Context) {
	h.mu.Lock()
	gate := h.loginGate
	h.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	h.mu.Lock()
	forced := h.loginStatus
	u, ok := h.users[username]
	generation := h.generation
	h.mu.Unlock()

	if forced != 0 {
		c.AbortWithStatus(forced)
		return
	}

	if !ok || u.password != password {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, u.ID)
	session.Set(sessionGenerationKey, generation)
	if err := session.Save(); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.logins++
	h.mu.Unlock()

	c.Status(http.StatusOK)
}

func (h *Hub) getServers(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	servers := make([]models.ServerDetails, 0, len(h.serverOrder))
	for _, id := range h.serverOrder {
		servers = append(servers, *h.servers[id])
	}

	c.JSON(http.StatusOK, servers)
}

func (h *Hub) getUser(c *gin.Context) {
	path := strings.Trim(c.Param("path"), "/")

	h.mu.Lock()
	defer h.mu.Unlock()

	if username, ok := strings.CutPrefix(path, "by_username/"); ok {
		u, found := h.users[username]
		if !found {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, u.UserData)
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	for _, u := range h.users {
		if u.ID == id {
			c.JSON(http.StatusOK, u.UserData)
			return
		}
	}

	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
}

func (h *Hub) postKeepAlive(c *gin.Context) {
	serverID, err := strconv.ParseInt(c.Param("server_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid server id"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	server, ok := h.servers[serverID]
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "server not found"})
		return
	}

	if server.OwnerID != c.GetInt64(sessionUserKey) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not the server owner"})
		return
	}

	addr := c.Param("server_addr")
	server.Addr = &addr

	c.Status(http.StatusOK)
}

func (h *Hub) getAccess(c *gin.Context) {
	serverID, err := strconv.ParseInt(c.Param("server_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid server id"})
		return
	}

	token, err := common.GenerateToken(32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	server, ok := h.servers[serverID]
	if !ok || !server.Online() {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("server %d is not online", serverID)})
		return
	}

	userID := c.GetInt64(sessionUserKey)
	h.tokens[tokenKey{serverID: serverID, userID: userID}] = token

	c.JSON(http.StatusOK, models.ServerAccess{
		ServerID:    serverID,
		ServerAddr:  *server.Addr,
		AccessToken: token,
	})
}

func (h *Hub) getVerify(c *gin.Context) {
	serverID, errServer := strconv.ParseInt(c.Param("server_id"), 10, 64)
	userID, errUser := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if errServer != nil || errUser != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	h.mu.Lock()
	expected, ok := h.tokens[tokenKey{serverID: serverID, userID: userID}]
	h.mu.Unlock()

	if !ok || expected != c.Param("token") {
		c.AbortWithStatus(http.StatusPreconditionFailed)
		return
	}

	c.Status(http.StatusOK)
}
