package presets

import "marketplace-web/internal/rbac"

const (
	RoleAdmin      rbac.Role = "ADMIN"
	RoleTechnician rbac.Role = "TECHNICIAN"
	RoleCustomer   rbac.Role = "CUSTOMER"
)

const (
	PathHome             = "/"
	PathSignIn           = "/signin"
	PathSignUp           = "/signup"
	PathServices         = "/services"
	PathCart             = "/cart"
	PathCheckout         = "/checkout"
	PathOrders           = "/orders"
	PathBookings         = "/bookings"
	PathPaymentSuccess   = "/payment/success"
	PathPaymentFailure   = "/payment/failure"
	PathAdmin            = "/admin"
	PathAdminTechnicians = "/admin/technicians"
	PathDashboard        = "/dashboard"
	PathJobs             = "/dashboard/jobs"
	PathKYC              = "/dashboard/kyc"
	PathLegal            = "/dashboard/legal"
	PathSupport          = "/dashboard/support"
	PathWallet           = "/dashboard/wallet"
	PathWithdraw         = "/dashboard/wallet/withdraw"
	PathMetrics          = "/api/metrics"
	PathDebug            = "/debug"
)

// Marketplace returns the route policy for the storefront, the technician
// portal and the admin panel.
func Marketplace() rbac.Config {
	return rbac.Config{
		Roles: []rbac.RoleDefinition{
			{Name: RoleAdmin, Description: "Back-office staff managing the technician workforce"},
			{Name: RoleTechnician, Description: "Field technician fulfilling bookings"},
			{Name: RoleCustomer, Description: "Signed-in storefront customer"},
		},
		Routes: []rbac.Rule{
			{Path: PathHome, Title: "Home"},
			{Path: PathSignIn, Title: "Sign in"},
			{Path: PathSignUp, Title: "Sign up"},
			{Path: PathServices, Title: "Services"},
			{Path: PathCart, Title: "Cart"},
			{Path: PathCheckout, Title: "Checkout"},
			{Path: PathOrders, Title: "Orders"},
			{Path: PathBookings, Title: "Bookings"},
			{Path: PathPaymentSuccess, Title: "Payment successful"},
			{Path: PathPaymentFailure, Title: "Payment failed"},

			{Path: PathAdmin, Title: "Admin", Required: RoleAdmin},
			{Path: PathAdminTechnicians, Title: "Technicians", Required: RoleAdmin},
			{Path: PathMetrics, Title: "Metrics", Required: RoleAdmin},
			{Path: PathDebug, Title: "Profiling", Required: RoleAdmin},

			{Path: PathDashboard, Title: "Dashboard", Required: RoleTechnician},
			{Path: PathJobs, Title: "Jobs", Required: RoleTechnician},
			{Path: PathKYC, Title: "KYC", Required: RoleTechnician},
			{Path: PathLegal, Title: "Legal", Required: RoleTechnician},
			{Path: PathSupport, Title: "Support", Required: RoleTechnician},
			{Path: PathWallet, Title: "Wallet", Required: RoleTechnician},
			{Path: PathWithdraw, Title: "Withdraw", Required: RoleTechnician},
		},
		Fallback: PathHome,
	}
}
