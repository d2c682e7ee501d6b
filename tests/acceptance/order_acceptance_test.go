package acceptance

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/martin-sellanes/pulseras-crm-api/controllers"
	"github.com/martin-sellanes/pulseras-crm-api/services"
	"github.com/martin-sellanes/pulseras-crm-api/store"
	"github.com/martin-sellanes/pulseras-crm-api/tests/testutil"
)

// OrderAcceptanceTestSuite runs end-to-end scenarios against a live test
// server, the way the frontend drives the API.
type OrderAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	store  *store.MemoryStore
	mockS3 *services.MockS3Service
}

// SetupSuite runs once before all tests
func (suite *OrderAcceptanceTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
}

// SetupTest runs before each test
func (suite *OrderAcceptanceTestSuite) SetupTest() {
	suite.store = testutil.NewSeededStore()
	suite.mockS3 = services.NewMockS3Service()

	images := services.NewImageService(suite.mockS3, "uploads/pulseras")
	directory := services.NewSheetDirectory(suite.store, testutil.CustomersSheet)
	ledger := services.NewSheetLedger(suite.store, testutil.OrdersSheet, directory, images)

	router := gin.New()
	router.Use(gin.Recovery())

	customerController := &controllers.CustomerController{Directory: directory}
	orderController := &controllers.OrderController{Ledger: ledger}

	api := router.Group("/api")
	{
		api.GET("/customers", customerController.List)
		api.POST("/customers", customerController.Create)
		api.GET("/orders", orderController.List)
		api.POST("/orders", orderController.Create)
	}

	suite.server = httptest.NewServer(router)
}

// TearDownTest runs after each test
func (suite *OrderAcceptanceTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *OrderAcceptanceTestSuite) post(path string, body map[string]interface{}) (*http.Response, map[string]interface{}) {
	encoded, err := json.Marshal(body)
	suite.NoError(err)

	resp, err := http.Post(suite.server.URL+path, "application/json", bytes.NewReader(encoded))
	suite.NoError(err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	suite.NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (suite *OrderAcceptanceTestSuite) get(path string) (*http.Response, map[string]interface{}) {
	resp, err := http.Get(suite.server.URL + path)
	suite.NoError(err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	suite.NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

// TestFullOrderScenario walks the complete business flow: register a
// customer, place an order with a product image, then read both back.
func (suite *OrderAcceptanceTestSuite) TestFullOrderScenario() {
	resp, created := suite.post("/api/customers", map[string]interface{}{
		"name":       "Ana Perez",
		"phone":      "099111222",
		"city":       "Montevideo",
		"department": "Montevideo",
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)
	customerID := created["id"].(string)
	suite.Equal("1", customerID)

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("acceptance png"))
	resp, created = suite.post("/api/orders", map[string]interface{}{
		"customer_id":     customerID,
		"quantity":        5,
		"unit_price":      "180",
		"model":           "trenzada",
		"color":           "violeta",
		"notes":           "para regalo, con envoltorio",
		"came_via_social": true,
		"deposit":         "400",
		"image_payload":   payload,
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	data := created["data"].(map[string]interface{})
	suite.Equal(float64(2), data["row"])
	suite.Equal("900", data["total"])
	suite.Equal("500", data["balance"])
	suite.Equal(false, data["paid_in_full"])

	imageURL := data["image_url"].(string)
	suite.Contains(imageURL, "pulsera_1_")
	suite.Len(suite.mockS3.UploadedObjects(), 1)

	// The ledger row holds the live formula and the embedded image.
	suite.Equal("=L2-M2", suite.store.Cell(testutil.OrdersSheet, 2, 14))
	suite.Equal(fmt.Sprintf(`=IMAGE("%s"; 4; 50; 300)`, imageURL), suite.store.Cell(testutil.OrdersSheet, 2, 11))

	// The listing serves the order back with the customer denormalized.
	resp, listed := suite.get("/api/orders")
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal(float64(1), listed["total"])

	order := listed["data"].([]interface{})[0].(map[string]interface{})
	suite.Equal("Ana Perez", order["customer_name"])
	suite.Equal("trenzada", order["model"])
	suite.Contains(order["logo"], imageURL)
}

// TestCustomerIDContinuity verifies ids keep counting from pre-existing rows.
func (suite *OrderAcceptanceTestSuite) TestCustomerIDContinuity() {
	testutil.SeedCustomers(suite.store, 9)

	resp, created := suite.post("/api/customers", map[string]interface{}{
		"name":  "Decimo Cliente",
		"phone": "099999999",
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.Equal("10", created["id"])
}

// TestPaidInFullOrderHighlight verifies the deposit cell highlight when the
// deposit exactly covers the total, fractional prices included.
func (suite *OrderAcceptanceTestSuite) TestPaidInFullOrderHighlight() {
	testutil.SeedCustomers(suite.store, 1)

	// 7 x 0.1 must equal 0.7 exactly.
	resp, created := suite.post("/api/orders", map[string]interface{}{
		"customer_id": "1",
		"quantity":    7,
		"unit_price":  "0.1",
		"model":       "lisa",
		"deposit":     "0.7",
	})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	data := created["data"].(map[string]interface{})
	suite.Equal(true, data["paid_in_full"])
	suite.Equal("0", data["balance"])

	style, ok := suite.store.StyleAt(testutil.OrdersSheet, 2, 13)
	suite.True(ok, "deposit cell should be highlighted")
	suite.InDelta(1.0, style.Background.Red, 0.0001)
	suite.InDelta(0.8, style.Background.Green, 0.0001)
	suite.InDelta(0.6, style.Background.Blue, 0.0001)
}

// TestValidationErrorsOverHTTP verifies the error envelope as a client sees it.
func (suite *OrderAcceptanceTestSuite) TestValidationErrorsOverHTTP() {
	testutil.SeedCustomers(suite.store, 1)

	resp, response := suite.post("/api/orders", map[string]interface{}{
		"customer_id": "1",
		"quantity":    -3,
		"unit_price":  "100",
		"model":       "lisa",
	})
	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal(false, response["success"])

	errorData := response["error"].(map[string]interface{})
	suite.Equal("INVALID_ORDER", errorData["code"])
	suite.Contains(errorData["message"], "quantity")
}

// TestOrderAcceptanceSuite runs the suite
func TestOrderAcceptanceSuite(t *testing.T) {
	suite.Run(t, new(OrderAcceptanceTestSuite))
}
