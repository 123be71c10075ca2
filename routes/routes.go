package routes

import (
	"net/http"
	"strings"

	"gokuldairy/handlers"
)

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*") // Replace * with your domain in production
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func handle(pattern string, h http.HandlerFunc) {
	http.Handle(pattern, withCORS(http.HandlerFunc(handlers.RecoverWrapper(h))))
}

func SetupRoutes(
	userHandler *handlers.UserHandler,
	customerHandler *handlers.CustomerHandler,
	deliveryHandler *handlers.DeliveryHandler,
	billHandler *handlers.BillHandler,
	reconcileHandler *handlers.ReconcileHandler,
	profileHandler *handlers.ProfileHandler,
	pdfHandler *handlers.PDFHandler,
) {
	// User routes
	handle("/signup", userHandler.Signup)
	handle("/login", userHandler.Login)

	// Customer routes
	handle("/customers", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			customerHandler.CreateCustomer(w, r)
		case http.MethodGet:
			customerHandler.GetAllCustomers(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// Customer subroutes: /customers/{id}[/reconcile|/statement]
	handle("/customers/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path[len("/customers/"):], "/"), "/")
		switch {
		case len(parts) == 1 && parts[0] != "":
			switch r.Method {
			case http.MethodGet:
				customerHandler.GetCustomerByID(w, r, parts[0])
			case http.MethodPut:
				customerHandler.UpdateCustomer(w, r, parts[0])
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
		case len(parts) == 2 && parts[1] == "reconcile" && r.Method == http.MethodGet:
			reconcileHandler.Reconcile(w, r, parts[0])
		case len(parts) == 2 && parts[1] == "statement" && r.Method == http.MethodGet:
			reconcileHandler.Statement(w, r, parts[0])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	// Delivery routes
	handle("/deliveries", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			deliveryHandler.SaveDelivery(w, r)
		case http.MethodGet:
			deliveryHandler.GetDeliveries(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	// Billing routes
	handle("/bills/generate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		billHandler.GenerateBills(w, r)
	})
	handle("/bills/sweep-overdue", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		billHandler.SweepOverdue(w, r)
	})
	handle("/bills", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		billHandler.GetAllBills(w, r)
	})

	// Bill subroutes: /bills/{id}[/payments|/pdf]
	handle("/bills/", func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path[len("/bills/"):], "/"), "/")
		switch {
		case len(parts) == 1 && parts[0] != "" && r.Method == http.MethodGet:
			billHandler.GetBillByID(w, r, parts[0])
		case len(parts) == 2 && parts[1] == "payments" && r.Method == http.MethodPost:
			billHandler.RecordPayment(w, r, parts[0])
		case len(parts) == 2 && parts[1] == "pdf" && r.Method == http.MethodGet:
			pdfHandler.InvoicePDF(w, r, parts[0])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	// Dairy profile routes
	handle("/profile", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			profileHandler.SaveProfile(w, r)
		case http.MethodGet:
			profileHandler.GetProfile(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
