package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appbook "github.com/xiebiao/bookstore-orders/internal/application/book"
	apporder "github.com/xiebiao/bookstore-orders/internal/application/order"
	appuser "github.com/xiebiao/bookstore-orders/internal/application/user"
	"github.com/xiebiao/bookstore-orders/internal/domain/book"
	"github.com/xiebiao/bookstore-orders/internal/domain/inventory"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/messaging"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/persistence"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-orders/internal/interface/http/router"
	"github.com/xiebiao/bookstore-orders/pkg/jwt"
	"github.com/xiebiao/bookstore-orders/pkg/response"
)

const password = "Passw0rd#"

type server struct {
	t      *testing.T
	engine *gin.Engine
	repos  *persistence.Repositories
}

func newServer(t *testing.T) *server {
	t.Helper()
	repos := persistence.NewMemory()
	tokens := jwt.NewManager("router-test-secret-router-test-secret", 0)
	users := user.NewServiceWithCost(repos.Users, bcrypt.MinCost)
	ledger := inventory.NewLedger(repos.Books, repos.InventoryLogs)
	events := messaging.NopPublisher{}

	register := appuser.NewRegisterUseCase(repos.Users, users)
	require.NoError(t, register.SeedAdmins(context.Background(), []appuser.AdminSeed{
		{Username: "admin", Email: "admin@example.com", Password: password},
	}))

	h := router.Handlers{
		Book: handler.NewBookHandler(
			appbook.NewCatalogUseCase(book.NewService(repos.Books)),
			appbook.NewInventoryUseCase(repos.Tx, ledger),
		),
		Order: handler.NewOrderHandler(
			apporder.NewCreateOrderUseCase(repos.Tx, ledger, repos.Orders, repos.Books, repos.Users, events),
			apporder.NewSetStatusUseCase(repos.Tx, repos.Orders, events),
			apporder.NewDeleteOrderUseCase(repos.Tx, repos.Orders, events),
			apporder.NewQueryOrdersUseCase(repos.Orders, repos.Books, repos.Users),
		),
		User: handler.NewUserHandler(
			register,
			appuser.NewLoginUseCase(users, tokens, repos.Sessions),
			appuser.NewLogoutUseCase(repos.Sessions),
			appuser.NewAccountUseCase(repos.Users, users),
		),
	}

	engine := router.New(router.Options{Mode: gin.TestMode}, h, middleware.NewAuth(tokens), zap.NewNop())
	return &server{t: t, engine: engine, repos: repos}
}

func (s *server) do(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *server) login(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/users/login", "", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return w.Body.String()
}

func (s *server) customer(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/v1/customers/register", "",
		`{"username":"`+username+`","email":"`+username+`@example.com","password":"`+password+`","fullName":"Customer `+username+`"}`)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return s.login(username)
}

func (s *server) book(price string, stock int) uint {
	s.t.Helper()
	b := book.NewBook("Go程序设计语言", decimal.RequireFromString(price), stock, 1, nil)
	require.NoError(s.t, s.repos.Books.Create(context.Background(), b))
	return b.ID
}

func (s *server) stock(id uint) int {
	s.t.Helper()
	b, err := s.repos.Books.FindByID(context.Background(), id)
	require.NoError(s.t, err)
	return b.Stock
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Code
}

func TestCreateOrder_Success(t *testing.T) {
	s := newServer(t)
	token := s.customer("alice")
	id := s.book("10.00", 5)

	w := s.do(http.MethodPost, "/api/v1/orders", token, `[{"bookId":1,"quantity":3}]`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Customer alice", view["customerName"])
	assert.Equal(t, "Pending", view["status"])
	assert.EqualValues(t, 30, view["totalPrice"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, view["orderDate"])

	details := view["details"].([]interface{})
	require.Len(t, details, 1)
	line := details[0].(map[string]interface{})
	assert.EqualValues(t, id, line["bookId"])
	assert.Equal(t, "Go程序设计语言", line["bookTitle"])
	assert.EqualValues(t, 10, line["unitPrice"])

	assert.Equal(t, 2, s.stock(id))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestCreateOrder_Failures(t *testing.T) {
	s := newServer(t)
	token := s.customer("alice")
	id := s.book("10.00", 2)

	tests := []struct {
		name   string
		token  string
		body   string
		status int
		code   int
	}{
		{"库存不足", token, `[{"bookId":1,"quantity":3}]`, http.StatusBadRequest, 40001},
		{"合并数量溢出", token, `[{"bookId":1,"quantity":9223372036854775807},{"bookId":1,"quantity":9223372036854775807},{"bookId":1,"quantity":4}]`, http.StatusBadRequest, 40001},
		{"图书不存在", token, `[{"bookId":1,"quantity":1},{"bookId":999,"quantity":1}]`, http.StatusBadRequest, 40007},
		{"空订单", token, `[]`, http.StatusBadRequest, 0},
		{"数量为0", token, `[{"bookId":1,"quantity":0}]`, http.StatusBadRequest, 0},
		{"请求体格式错误", token, `{"bookId":1}`, http.StatusBadRequest, 40901},
		{"未登录", "", `[{"bookId":1,"quantity":1}]`, http.StatusUnauthorized, 40100},
		{"Token无效", "not-a-token", `[{"bookId":1,"quantity":1}]`, http.StatusUnauthorized, 40101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/v1/orders", tt.token, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.code != 0 {
				assert.Equal(t, tt.code, errorCode(t, w))
			}
		})
	}

	assert.Equal(t, 2, s.stock(id), "失败的请求不能改变库存")
}

func TestCreateOrder_AdminIsNotCustomer(t *testing.T) {
	s := newServer(t)
	s.book("1", 1)

	w := s.do(http.MethodPost, "/api/v1/orders", s.login("admin"), `[{"bookId":1,"quantity":1}]`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40104, errorCode(t, w))
}

func TestOrderLifecycle(t *testing.T) {
	s := newServer(t)
	alice := s.customer("alice")
	bob := s.customer("bob")
	admin := s.login("admin")
	s.book("8.50", 10)

	w := s.do(http.MethodPost, "/api/v1/orders", alice, `[{"bookId":1,"quantity":2}]`)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("我的订单只包含自己的", func(t *testing.T) {
		w := s.do(http.MethodGet, "/api/v1/orders/my", alice, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, s.do(http.MethodGet, "/api/v1/orders/my", bob, "").Body.String())

		var views []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
		assert.Len(t, views, 1)
	})

	t.Run("状态修改", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPut, "/api/v1/orders/1", bob, `"Paid"`).Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, "/api/v1/orders/99", alice, `"Paid"`).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/orders/1", alice, `"Lost"`).Code)
		assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/orders/abc", alice, `"Paid"`).Code)

		require.Equal(t, http.StatusNoContent, s.do(http.MethodPut, "/api/v1/orders/1", alice, `"shipped"`).Code)
		require.Equal(t, http.StatusNoContent, s.do(http.MethodPut, "/api/v1/orders/1", alice, `1`).Code)

		w := s.do(http.MethodGet, "/api/v1/orders/1", admin, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"Paid"`)
	})

	t.Run("查看权限", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/orders/1", alice, "").Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/orders/1", bob, "").Code)
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/orders", admin, "").Code)
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/orders", alice, "").Code)
	})

	t.Run("删除", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodDelete, "/api/v1/orders/1", bob, "").Code)
		require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/orders/1", alice, "").Code)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/orders/1", alice, "").Code)
		assert.Equal(t, 8, s.stock(1), "删除订单不回补库存")
	})
}

func TestLoginAndLogout(t *testing.T) {
	s := newServer(t)
	token := s.customer("alice")

	w := s.do(http.MethodPost, "/api/v1/users/login", "", `{"username":"alice","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40103, errorCode(t, w))

	require.Equal(t, http.StatusNoContent, s.do(http.MethodGet, "/api/v1/users/logout", token, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/orders/my", token, "").Code, "登出后Token在过期前仍可使用")
}

func TestCustomerEndpoints(t *testing.T) {
	s := newServer(t)
	alice := s.customer("alice")
	bob := s.customer("bob")
	admin := s.login("admin")

	w := s.do(http.MethodPost, "/api/v1/customers/register", "",
		`{"username":"ALICE","email":"x@example.com","password":"`+password+`"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40004, errorCode(t, w))

	w = s.do(http.MethodGet, "/api/v1/customers", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []appuser.UserView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	aliceID := list[0].ID

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/customers", alice, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/customers/"+aliceID, alice, "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/customers/"+aliceID, bob, "").Code)

	body := `{"id":"` + aliceID + `","address":"北京市"}`
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPut, "/api/v1/customers/profile", bob, body).Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodPut, "/api/v1/customers/profile", alice, body).Code)

	w = s.do(http.MethodPut, "/api/v1/users/profile/changepassword", alice,
		`{"oldPassword":"`+password+`","newPassword":"NewPassw0rd!","confirmPassword":"Mismatch0!"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodDelete, "/api/v1/users/"+aliceID, bob, "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/users/"+aliceID, admin, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/api/v1/users/"+aliceID, admin, "").Code)
}

func TestBookEndpoints(t *testing.T) {
	s := newServer(t)
	admin := s.login("admin")
	alice := s.customer("alice")

	body := `{"title":"Go语言实战","price":"59.9","stock":3,"authorId":1}`
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/v1/books", alice, body).Code)

	w := s.do(http.MethodPost, "/api/v1/books", admin, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"price":59.90`)

	w = s.do(http.MethodGet, "/api/v1/books?keyword=go", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = s.do(http.MethodPut, "/api/v1/books/1", admin, `{"price":"49.90","stock":999}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stock":3`, "目录修改不写库存")

	w = s.do(http.MethodPut, "/api/v1/books/1/stock", admin, `{"quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"stock":5`)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPut, "/api/v1/books/1/stock", admin, `{"quantity":0}`).Code)

	w = s.do(http.MethodGet, "/api/v1/books/1/inventory-logs", admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"changeType":"RESTOCK"`)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/api/v1/books/1", admin, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/books/1", "", "").Code)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40400, errorCode(t, w))
}
