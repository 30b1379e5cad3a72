package enrich

// TopicBucket maps a topical tag to the keywords that trigger it. Buckets
// are evaluated in order so tag output is deterministic.
type TopicBucket struct {
	Tag      string
	Keywords []string
}

// DefaultTopicBuckets returns the credit-servicing tagging taxonomy the
// pipeline ships with. Any keyword hit (case-insensitive substring over
// title and body) includes the bucket's tag.
func DefaultTopicBuckets() []TopicBucket {
	return []TopicBucket{
		{Tag: "payments", Keywords: []string{
			"payment", "payments", "pay my bill", "due date",
			"autopay", "auto-pay", "automatic payment",
		}},
		{Tag: "late_fees", Keywords: []string{
			"late fee", "late fees", "past due", "delinquent",
			"overdue", "late charge", "late charges",
		}},
		{Tag: "hardship", Keywords: []string{
			"hardship", "forbearance", "payment relief", "relief program",
			"difficulty paying", "cant pay", "can't pay",
		}},
		{Tag: "disputes", Keywords: []string{
			"dispute", "chargeback", "fraudulent", "unauthorized",
			"billing error", "report fraud", "report a charge",
		}},
		{Tag: "interest", Keywords: []string{
			"interest rate", "apr", "annual percentage rate",
			"variable rate", "fixed rate",
		}},
		{Tag: "fees", Keywords: []string{
			"fee", "fees", "annual fee", "balance transfer fee",
			"cash advance fee",
		}},
		{Tag: "auto_loans", Keywords: []string{
			"auto loan", "car loan", "vehicle loan",
			"auto financing", "car financing", "vehicle financing",
			"auto refinance", "car refinance",
			"dealership financing", "dealer financing",
			"gap insurance", "vehicle title",
		}},
		{Tag: "home_loans", Keywords: []string{
			"mortgage", "home loan", "housing loan",
			"heloc", "home equity", "equity loan",
			"escrow", "property tax", "closing costs",
			"conventional loan", "fha loan", "va loan", "jumbo loan",
		}},
		{Tag: "personal_loans", Keywords: []string{
			"personal loan", "installment loan",
			"unsecured loan", "secured loan",
			"origination fee", "debt consolidation loan",
		}},
		{Tag: "student_loans", Keywords: []string{
			"student loan", "federal student loan", "private student loan",
			"fafsa", "income-driven repayment", "idr plan",
			"student loan forgiveness", "loan servicer",
			"deferment", "subsidized", "unsubsidized",
			"pell grant", "grace period",
		}},
		{Tag: "refinance", Keywords: []string{
			"refinance", "refinancing", "rate and term refinance",
			"cash-out refinance", "lower my rate",
			"lower monthly payment", "refinance options",
		}},
		{Tag: "debt_consolidation", Keywords: []string{
			"consolidate debt", "debt consolidation",
			"balance transfer loan", "merge debts",
		}},
		{Tag: "loan_shopping", Keywords: []string{
			"loan comparison", "compare rates", "best rates",
			"soft inquiry", "hard inquiry",
			"prequalified", "pre-qualification", "preapproved", "pre-approval",
		}},
		{Tag: "loan_eligibility", Keywords: []string{
			"qualify", "eligibility", "credit score required",
			"income requirement", "debt-to-income", "dti",
			"creditworthiness", "underwriting",
		}},
	}
}
