package dashboard

// Units understood by the display formatter.
const (
	unitPercent = "percent"
	unitCount   = "count"
	unitUSD     = "usd"
	unitHours   = "hours"
	unitMillis  = "ms"
	unitWeeks   = "weeks"
)

// SectionKeys lists the feature areas in display order.
var SectionKeys = []string{
	"compliance", "hr", "workflow", "analytics",
	"agents", "llm", "sovereign", "services",
}

// catalog holds the platform-level metrics per feature area. These are
// fleet-wide figures, identical for every tenant; tenant-specific facts
// (team size, plan limits, usage counters) are layered on by the service.
var catalog = map[string]Section{
	"compliance": {
		Key:         "compliance",
		Title:       "AI Financial Compliance",
		Description: "Automated regulatory monitoring, transaction screening and reporting.",
		Metrics: []Metric{
			{Key: "compliance_score", Label: "Financial Compliance", Value: 98.5, Unit: unitPercent},
			{Key: "transactions_screened", Label: "Transactions Screened", Value: 1240000, Unit: unitCount},
			{Key: "alerts_resolved", Label: "Alerts Resolved", Value: 312, Unit: unitCount},
			{Key: "audit_readiness", Label: "Audit Readiness", Value: 96.1, Unit: unitPercent},
		},
	},
	"hr": {
		Key:         "hr",
		Title:       "HR Intelligence",
		Description: "Candidate screening, onboarding automation and retention insights.",
		Metrics: []Metric{
			{Key: "hr_automation", Label: "HR Automation", Value: 85, Unit: unitPercent},
			{Key: "candidates_screened", Label: "Candidates Screened", Value: 4230, Unit: unitCount},
			{Key: "onboarding_time_saved", Label: "Onboarding Hours Saved", Value: 1890, Unit: unitHours},
			{Key: "retention_score", Label: "Retention Score", Value: 91.4, Unit: unitPercent},
		},
	},
	"workflow": {
		Key:         "workflow",
		Title:       "Workflow Automation",
		Description: "Process orchestration across finance, operations and support.",
		Metrics: []Metric{
			{Key: "automation_rate", Label: "Workflow Automation", Value: 70, Unit: unitPercent},
			{Key: "flows_active", Label: "Active Flows", Value: 138, Unit: unitCount},
			{Key: "runs_completed", Label: "Runs Completed", Value: 58400, Unit: unitCount},
			{Key: "hours_saved", Label: "Time Saved", Value: 12450, Unit: unitHours},
		},
	},
	"analytics": {
		Key:         "analytics",
		Title:       "Predictive Analytics",
		Description: "Forecasting, anomaly detection and decision support.",
		Metrics: []Metric{
			{Key: "model_accuracy", Label: "Predictive Analytics", Value: 92, Unit: unitPercent},
			{Key: "forecast_accuracy", Label: "Accuracy", Value: 94.2, Unit: unitPercent},
			{Key: "cost_savings", Label: "Cost Savings", Value: 2400000, Unit: unitUSD},
			{Key: "reports_generated", Label: "Reports Generated", Value: 1270, Unit: unitCount},
		},
	},
	"agents": {
		Key:         "agents",
		Title:       "AI Agents",
		Description: "Intelligent agents for automation, customer service and task execution.",
		Metrics: []Metric{
			{Key: "active_agents", Label: "Active Agents", Value: 24, Unit: unitCount},
			{Key: "tasks_completed", Label: "Tasks Completed", Value: 1847, Unit: unitCount},
			{Key: "conversations", Label: "Conversations", Value: 892, Unit: unitCount},
			{Key: "processing_uptime", Label: "AI Processing", Value: 98.3, Unit: unitPercent},
		},
	},
	"llm": {
		Key:         "llm",
		Title:       "LLM Governance",
		Description: "Model inventory, inference monitoring and governance scoring.",
		Metrics: []Metric{
			{Key: "active_models", Label: "Active Models", Value: 8, Unit: unitCount},
			{Key: "inference_requests", Label: "Inference Requests", Value: 2400000, Unit: unitCount},
			{Key: "avg_response_time", Label: "Avg Response Time", Value: 245, Unit: unitMillis},
			{Key: "governance_score", Label: "Governance Score", Value: 98.7, Unit: unitPercent},
		},
	},
	"sovereign": {
		Key:         "sovereign",
		Title:       "Sovereign Deployment",
		Description: "On-premise and edge deployments with full data residency.",
		Metrics: []Metric{
			{Key: "data_sovereignty", Label: "Data Sovereignty", Value: 100, Unit: unitPercent},
			{Key: "onprem_nodes", Label: "On-Premise Nodes", Value: 24, Unit: unitCount},
			{Key: "privacy_score", Label: "Privacy Score", Value: 98.7, Unit: unitPercent},
			{Key: "regulatory_compliance", Label: "Regulatory Compliance", Value: 100, Unit: unitPercent},
		},
	},
	"services": {
		Key:         "services",
		Title:       "Professional Services",
		Description: "Consulting, implementation and value optimization engagements.",
		Metrics: []Metric{
			{Key: "active_projects", Label: "Active Projects", Value: 47, Unit: unitCount},
			{Key: "revenue_generated", Label: "Revenue Generated", Value: 2800000, Unit: unitUSD},
			{Key: "avg_implementation", Label: "Avg Implementation", Value: 4.2, Unit: unitWeeks},
			{Key: "client_satisfaction", Label: "Client Satisfaction", Value: 96.8, Unit: unitPercent},
		},
	},
}

// CatalogSection returns the static section for key, false when unknown.
func CatalogSection(key string) (Section, bool) {
	s, ok := catalog[key]
	return s, ok
}
