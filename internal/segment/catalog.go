package segment

import "github.com/pulseboard/pulseboard/internal/feedback"

// Type names one of the fixed segmentation axes.
type Type string

const (
	TypePersona    Type = "persona"
	TypeLifecycle  Type = "lifecycle"
	TypePlan       Type = "plan"
	TypeBehavior   Type = "behavior"
	TypeGeographic Type = "geographic"
	TypeTemporal   Type = "temporal"
)

// Types lists every segmentation axis.
var Types = []Type{TypePersona, TypeLifecycle, TypePlan, TypeBehavior, TypeGeographic, TypeTemporal}

// Definition is one immutable catalog entry: a named cohort and the
// criteria a record must satisfy to belong to it.
type Definition struct {
	ID          string
	Name        string
	Description string
	Criteria    []Criterion
}

// personaCatalog groups customers by who they are to the product.
var personaCatalog = []Definition{
	{
		ID:          "power_user",
		Name:        "Power Users",
		Description: "Frequent contributors with positive sentiment",
		Criteria: []Criterion{
			CountRange{Min: 5},
			SentimentRange{Min: 0.3, Max: 1},
		},
	},
	{
		ID:          "frustrated_user",
		Name:        "Frustrated Users",
		Description: "Repeat contributors trending negative",
		Criteria: []Criterion{
			CountRange{Min: 2},
			SentimentRange{Min: -1, Max: -0.3},
		},
	},
	{
		ID:          "feature_champion",
		Name:        "Feature Champions",
		Description: "Customers actively shaping the roadmap",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"feature_request", "improvement"}},
			SentimentRange{Min: 0, Max: 1},
		},
	},
	{
		ID:          "detractor",
		Name:        "Detractors",
		Description: "Strongly negative customers raising urgent issues",
		Criteria: []Criterion{
			SentimentRange{Min: -1, Max: -0.5},
			UrgencySet{Urgencies: []feedback.Urgency{feedback.UrgencyHigh, feedback.UrgencyCritical}},
		},
	},
	{
		ID:          "passive_observer",
		Name:        "Passive Observers",
		Description: "Occasional, brief feedback",
		Criteria: []Criterion{
			CountRange{Min: 1, Max: 2},
			ContentLengthRange{Max: 120},
		},
	},
}

// lifecycleCatalog groups customers by where they are in their journey.
var lifecycleCatalog = []Definition{
	{
		ID:          "new_user",
		Name:        "New Users",
		Description: "First touches, onboarding topics",
		Criteria: []Criterion{
			CountRange{Min: 1, Max: 2},
			CategoryMembership{Categories: []string{"onboarding", "getting_started"}},
		},
	},
	{
		ID:          "activated",
		Name:        "Activated",
		Description: "Regular contributors with neutral-or-better sentiment",
		Criteria: []Criterion{
			CountRange{Min: 3, Max: 10},
			SentimentRange{Min: 0, Max: 1},
		},
	},
	{
		ID:          "established",
		Name:        "Established",
		Description: "Long-running accounts with a deep feedback history",
		Criteria: []Criterion{
			CountRange{Min: 5},
		},
	},
	{
		ID:          "at_risk",
		Name:        "At Risk",
		Description: "Negative trend with escalating urgency",
		Criteria: []Criterion{
			SentimentRange{Min: -1, Max: -0.2},
			UrgencySet{Urgencies: []feedback.Urgency{feedback.UrgencyMedium, feedback.UrgencyHigh, feedback.UrgencyCritical}},
		},
	},
	{
		ID:          "churning",
		Name:        "Churning",
		Description: "Sustained strongly negative history",
		Criteria: []Criterion{
			CountRange{Min: 3},
			SentimentRange{Min: -1, Max: -0.5},
		},
	},
}

// planCatalog infers plan-tier cohorts from feedback topics.
var planCatalog = []Definition{
	{
		ID:          "free_tier_voice",
		Name:        "Free Tier Voice",
		Description: "Short pricing and billing feedback typical of free accounts",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"pricing", "billing"}},
			ContentLengthRange{Max: 200},
		},
	},
	{
		ID:          "pro_tier_voice",
		Name:        "Pro Tier Voice",
		Description: "Integration and API topics typical of paying teams",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"integration", "api"}},
		},
	},
	{
		ID:          "enterprise_voice",
		Name:        "Enterprise Voice",
		Description: "Security, compliance and SLA concerns",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"security", "compliance", "sla"}},
		},
	},
	{
		ID:          "upgrade_candidate",
		Name:        "Upgrade Candidates",
		Description: "Happy customers asking for more capability",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"feature_request"}},
			SentimentRange{Min: 0.2, Max: 1},
		},
	},
	{
		ID:          "downgrade_risk",
		Name:        "Downgrade Risks",
		Description: "Unhappy customers questioning price",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"pricing", "billing"}},
			SentimentRange{Min: -1, Max: -0.2},
		},
	},
}

// behaviorCatalog groups customers by how they engage.
var behaviorCatalog = []Definition{
	{
		ID:          "bug_reporter",
		Name:        "Bug Reporters",
		Description: "Customers who mostly file defects",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"bug", "complaint"}},
		},
	},
	{
		ID:          "idea_generator",
		Name:        "Idea Generators",
		Description: "Customers who mostly suggest improvements",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"feature_request", "improvement"}},
		},
	},
	{
		ID:          "question_asker",
		Name:        "Question Askers",
		Description: "Customers who mostly seek guidance",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"question", "support"}},
		},
	},
	{
		ID:          "praise_giver",
		Name:        "Praise Givers",
		Description: "Consistently enthusiastic customers",
		Criteria: []Criterion{
			SentimentRange{Min: 0.5, Max: 1},
		},
	},
	{
		ID:          "escalator",
		Name:        "Escalators",
		Description: "Detailed, critical-urgency reports",
		Criteria: []Criterion{
			UrgencySet{Urgencies: []feedback.Urgency{feedback.UrgencyCritical}},
			ContentLengthRange{Min: 200},
		},
	},
}

// geographicCatalog groups customers by region tags applied at ingestion.
var geographicCatalog = []Definition{
	{
		ID:          "north_america",
		Name:        "North America",
		Description: "Feedback tagged to North American accounts",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"north_america", "us", "canada"}},
		},
	},
	{
		ID:          "europe",
		Name:        "Europe",
		Description: "Feedback tagged to European accounts",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"europe", "eu", "uk"}},
		},
	},
	{
		ID:          "asia_pacific",
		Name:        "Asia Pacific",
		Description: "Feedback tagged to APAC accounts",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"asia_pacific", "apac", "australia"}},
		},
	},
	{
		ID:          "latin_america",
		Name:        "Latin America",
		Description: "Feedback tagged to Latin American accounts",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"latin_america", "latam", "brazil", "mexico"}},
		},
	},
	{
		ID:          "multi_region",
		Name:        "Multi-Region",
		Description: "Accounts operating across regions",
		Criteria: []Criterion{
			CategoryMembership{Categories: []string{"multi_region", "global"}},
		},
	},
}

// temporalCatalog groups customers by engagement cadence.
var temporalCatalog = []Definition{
	{
		ID:          "frequent_voice",
		Name:        "Frequent Voices",
		Description: "High-cadence contributors",
		Criteria: []Criterion{
			CountRange{Min: 5},
		},
	},
	{
		ID:          "burst_reporter",
		Name:        "Burst Reporters",
		Description: "Clusters of urgent reports in short order",
		Criteria: []Criterion{
			CountRange{Min: 3, Max: 10},
			UrgencySet{Urgencies: []feedback.Urgency{feedback.UrgencyHigh, feedback.UrgencyCritical}},
		},
	},
	{
		ID:          "occasional_voice",
		Name:        "Occasional Voices",
		Description: "One or two touches in the window",
		Criteria: []Criterion{
			CountRange{Min: 1, Max: 2},
		},
	},
	{
		ID:          "steady_engaged",
		Name:        "Steady and Engaged",
		Description: "Moderate cadence, positive-leaning",
		Criteria: []Criterion{
			CountRange{Min: 3, Max: 6},
			SentimentRange{Min: 0, Max: 1},
		},
	},
	{
		ID:          "long_form_historian",
		Name:        "Long-Form Historians",
		Description: "Detailed write-ups regardless of cadence",
		Criteria: []Criterion{
			ContentLengthRange{Min: 300},
		},
	},
}

var catalogs = map[Type][]Definition{
	TypePersona:    personaCatalog,
	TypeLifecycle:  lifecycleCatalog,
	TypePlan:       planCatalog,
	TypeBehavior:   behaviorCatalog,
	TypeGeographic: geographicCatalog,
	TypeTemporal:   temporalCatalog,
}

// Catalog returns the ordered definitions for a segmentation axis.
func Catalog(t Type) ([]Definition, error) {
	defs, ok := catalogs[t]
	if !ok {
		return nil, ErrUnknownSegmentType
	}
	return defs, nil
}
