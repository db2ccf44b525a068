// Package checklist holds the static business-starter reference table.
// Step records reference these entries by id; the table itself never
// changes at runtime.
package checklist

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Entry struct {
	ID          string     `json:"id"`
	Category    string     `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Details     []string   `json:"details"`
	Resources   []Resource `json:"resources"`
}

// All returns every checklist entry in presentation order.
func All() []Entry {
	return entries
}

// ByID looks up a single entry.
func ByID(id string) (Entry, bool) {
	for _, entry := range entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

var entries = []Entry{
	// Planning Phase
	{
		ID:          "idea-validation",
		Category:    "planning",
		Title:       "Validate Your Business Idea",
		Description: "Research and validate that your business idea has market potential",
		Details: []string{
			"Identify your target market and customer pain points",
			"Research competitors and analyze their strengths/weaknesses",
			"Survey potential customers to gauge interest",
			"Create a unique value proposition",
			"Test your idea with a minimum viable product (MVP)",
		},
		Resources: []Resource{
			{Title: "SBA Market Research Guide", URL: "https://www.sba.gov/business-guide/plan-your-business/market-research-competitive-analysis"},
			{Title: "Google Trends", URL: "https://trends.google.com"},
		},
	},
	{
		ID:          "business-plan",
		Category:    "planning",
		Title:       "Write a Business Plan",
		Description: "Create a comprehensive plan outlining your business strategy",
		Details: []string{
			"Write an executive summary",
			"Define your business model and revenue streams",
			"Outline your marketing and sales strategy",
			"Create financial projections for 3-5 years",
			"Identify key milestones and goals",
		},
		Resources: []Resource{
			{Title: "SBA Business Plan Tool", URL: "https://www.sba.gov/business-guide/plan-your-business/write-your-business-plan"},
			{Title: "SCORE Business Plan Template", URL: "https://www.score.org/resource/business-plan-template-startup-business"},
		},
	},
	{
		ID:          "business-name",
		Category:    "planning",
		Title:       "Choose Your Business Name",
		Description: "Select a memorable, unique name and check availability",
		Details: []string{
			"Brainstorm business name ideas",
			"Check domain name availability",
			"Search trademark database to avoid conflicts",
			"Verify name availability in your state",
			"Get feedback from potential customers",
		},
		Resources: []Resource{
			{Title: "USPTO Trademark Search", URL: "https://www.uspto.gov/trademarks"},
			{Title: "Domain Name Search", URL: "https://domains.google.com"},
		},
	},

	// Legal Phase
	{
		ID:          "business-structure",
		Category:    "legal",
		Title:       "Choose Your Business Structure",
		Description: "Select the legal structure that best fits your business",
		Details: []string{
			"Understand different structures: Sole Proprietorship, LLC, Corporation, Partnership",
			"Consider liability protection and tax implications",
			"Consult with a lawyer or accountant if needed",
			"Decide on the best structure for your situation",
			"Document your decision and reasoning",
		},
		Resources: []Resource{
			{Title: "SBA Business Structure Guide", URL: "https://www.sba.gov/business-guide/launch-your-business/choose-business-structure"},
			{Title: "IRS Business Structures", URL: "https://www.irs.gov/businesses/small-businesses-self-employed/business-structures"},
		},
	},
	{
		ID:          "register-business",
		Category:    "legal",
		Title:       "Register Your Business",
		Description: "Officially register your business with state and federal agencies",
		Details: []string{
			"Register with your Secretary of State",
			"Apply for an Employer Identification Number (EIN)",
			"Register for state taxes",
			"Apply for necessary business licenses",
			"Register for local permits if required",
		},
		Resources: []Resource{
			{Title: "Apply for EIN", URL: "https://www.irs.gov/businesses/small-businesses-self-employed/apply-for-an-employer-identification-number-ein-online"},
			{Title: "SBA State Registration", URL: "https://www.sba.gov/business-guide/launch-your-business/register-your-business"},
		},
	},
	{
		ID:          "licenses-permits",
		Category:    "legal",
		Title:       "Get Required Licenses and Permits",
		Description: "Obtain all necessary business licenses and permits",
		Details: []string{
			"Research federal, state, and local requirements",
			"Apply for professional licenses if needed",
			"Get zoning permits for your location",
			"Obtain health department permits if applicable",
			"Secure industry-specific licenses",
		},
		Resources: []Resource{
			{Title: "SBA Licenses & Permits", URL: "https://www.sba.gov/business-guide/launch-your-business/apply-licenses-permits"},
			{Title: "Business.gov License Finder", URL: "https://www.sba.gov/business-guide/launch-your-business/apply-licenses-permits"},
		},
	},
	{
		ID:          "contracts-agreements",
		Category:    "legal",
		Title:       "Prepare Legal Documents",
		Description: "Create essential contracts and agreements",
		Details: []string{
			"Draft customer contracts and terms of service",
			"Create vendor and supplier agreements",
			"Prepare employee contracts or independent contractor agreements",
			"Write a privacy policy and terms of use for your website",
			"Consider hiring a lawyer for complex agreements",
		},
		Resources: []Resource{
			{Title: "LegalZoom", URL: "https://www.legalzoom.com"},
			{Title: "Rocket Lawyer", URL: "https://www.rocketlawyer.com"},
		},
	},

	// Financial Phase
	{
		ID:          "business-bank-account",
		Category:    "financial",
		Title:       "Open a Business Bank Account",
		Description: "Separate your personal and business finances",
		Details: []string{
			"Research banks that offer business accounts",
			"Gather required documents (EIN, registration papers)",
			"Compare fees and features",
			"Open a business checking account",
			"Consider a business savings account and credit card",
		},
		Resources: []Resource{
			{Title: "NerdWallet Business Checking", URL: "https://www.nerdwallet.com/best/small-business/business-checking-accounts"},
			{Title: "Bankrate Business Accounts", URL: "https://www.bankrate.com/banking/best-business-checking-accounts/"},
		},
	},
	{
		ID:          "accounting-system",
		Category:    "financial",
		Title:       "Set Up Accounting System",
		Description: "Establish a system to track income and expenses",
		Details: []string{
			"Choose accounting software (QuickBooks, FreshBooks, Wave)",
			"Set up your chart of accounts",
			"Create a system for tracking receipts and invoices",
			"Establish a bookkeeping routine",
			"Consider hiring an accountant or bookkeeper",
		},
		Resources: []Resource{
			{Title: "QuickBooks", URL: "https://quickbooks.intuit.com"},
			{Title: "Wave (Free)", URL: "https://www.waveapps.com"},
		},
	},
	{
		ID:          "funding",
		Category:    "financial",
		Title:       "Secure Funding",
		Description: "Obtain the capital needed to start and grow your business",
		Details: []string{
			"Calculate your startup costs",
			"Explore funding options: savings, loans, investors, grants",
			"Prepare financial projections for lenders/investors",
			"Apply for small business loans if needed",
			"Consider crowdfunding or angel investors",
		},
		Resources: []Resource{
			{Title: "SBA Funding Programs", URL: "https://www.sba.gov/funding-programs"},
			{Title: "Grants.gov", URL: "https://www.grants.gov"},
		},
	},
	{
		ID:          "insurance",
		Category:    "financial",
		Title:       "Get Business Insurance",
		Description: "Protect your business with appropriate insurance coverage",
		Details: []string{
			"Assess your insurance needs based on your industry",
			"Research types: General Liability, Professional Liability, Property",
			"Get quotes from multiple insurance providers",
			"Purchase necessary coverage",
			"Review and update policies annually",
		},
		Resources: []Resource{
			{Title: "SBA Insurance Guide", URL: "https://www.sba.gov/business-guide/launch-your-business/get-business-insurance"},
			{Title: "NEXT Insurance", URL: "https://www.nextinsurance.com"},
		},
	},

	// Operations Phase
	{
		ID:          "location",
		Category:    "operations",
		Title:       "Establish Your Business Location",
		Description: "Set up your physical or virtual business location",
		Details: []string{
			"Decide between home-based, office, retail, or virtual",
			"Evaluate location options and costs",
			"Sign a lease or set up home office",
			"Ensure compliance with zoning laws",
			"Set up utilities and internet connection",
		},
		Resources: []Resource{
			{Title: "Regus Virtual Offices", URL: "https://www.regus.com"},
			{Title: "WeWork", URL: "https://www.wework.com"},
		},
	},
	{
		ID:          "suppliers-vendors",
		Category:    "operations",
		Title:       "Find Suppliers and Vendors",
		Description: "Establish relationships with key suppliers",
		Details: []string{
			"Identify products or services you need to source",
			"Research and vet potential suppliers",
			"Request quotes and compare pricing",
			"Negotiate terms and payment schedules",
			"Establish backup suppliers",
		},
		Resources: []Resource{
			{Title: "Alibaba", URL: "https://www.alibaba.com"},
			{Title: "ThomasNet", URL: "https://www.thomasnet.com"},
		},
	},
	{
		ID:          "website",
		Category:    "operations",
		Title:       "Build Your Website",
		Description: "Create an online presence for your business",
		Details: []string{
			"Purchase a domain name",
			"Choose a website builder or hire a developer",
			"Design pages: Home, About, Services/Products, Contact",
			"Set up payment processing if selling online",
			"Optimize for mobile and search engines (SEO)",
		},
		Resources: []Resource{
			{Title: "Wix", URL: "https://www.wix.com"},
			{Title: "Squarespace", URL: "https://www.squarespace.com"},
			{Title: "Shopify (E-commerce)", URL: "https://www.shopify.com"},
		},
	},
	{
		ID:          "marketing-plan",
		Category:    "operations",
		Title:       "Create Marketing Plan",
		Description: "Develop a strategy to attract and retain customers",
		Details: []string{
			"Define your target audience and ideal customer",
			"Choose marketing channels: social media, email, content, ads",
			"Create a content calendar",
			"Set up social media profiles",
			"Plan your launch campaign",
		},
		Resources: []Resource{
			{Title: "HubSpot Marketing Hub", URL: "https://www.hubspot.com/products/marketing"},
			{Title: "Mailchimp", URL: "https://mailchimp.com"},
		},
	},
	{
		ID:          "systems-tools",
		Category:    "operations",
		Title:       "Set Up Business Systems",
		Description: "Implement tools and processes for daily operations",
		Details: []string{
			"Choose project management software",
			"Set up customer relationship management (CRM)",
			"Implement communication tools (email, messaging)",
			"Create standard operating procedures (SOPs)",
			"Establish workflow automation where possible",
		},
		Resources: []Resource{
			{Title: "Asana", URL: "https://asana.com"},
			{Title: "Trello", URL: "https://trello.com"},
			{Title: "HubSpot CRM (Free)", URL: "https://www.hubspot.com/products/crm"},
		},
	},
	{
		ID:          "hire-team",
		Category:    "operations",
		Title:       "Build Your Team (If Needed)",
		Description: "Hire employees or contractors to support your business",
		Details: []string{
			"Define roles and responsibilities",
			"Create job descriptions",
			"Post job listings or use recruiting services",
			"Interview and vet candidates",
			"Complete hiring paperwork and onboarding",
		},
		Resources: []Resource{
			{Title: "Indeed", URL: "https://www.indeed.com/hire"},
			{Title: "LinkedIn", URL: "https://www.linkedin.com/talent"},
			{Title: "Upwork (Freelancers)", URL: "https://www.upwork.com"},
		},
	},
	{
		ID:          "launch",
		Category:    "operations",
		Title:       "Launch Your Business!",
		Description: "Officially open your doors and start serving customers",
		Details: []string{
			"Announce your launch on all channels",
			"Host a launch event or promotion",
			"Reach out to your network",
			"Start delivering your product or service",
			"Celebrate this amazing milestone!",
		},
		Resources: []Resource{
			{Title: "Eventbrite (Events)", URL: "https://www.eventbrite.com"},
			{Title: "Canva (Marketing Materials)", URL: "https://www.canva.com"},
		},
	},
}
