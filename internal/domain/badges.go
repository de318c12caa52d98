package domain

const (
	BadgeWelcome        BadgeID = "welcome"
	BadgeFirstPost      BadgeID = "first_post"
	BadgeFirstQuestion  BadgeID = "first_question"
	BadgeFirstAnswer    BadgeID = "first_answer"
	BadgeCurious        BadgeID = "curious"
	BadgeHelpful        BadgeID = "helpful"
	BadgePopularPost    BadgeID = "popular_post"
	BadgeValuableAnswer BadgeID = "valuable_answer"
	BadgeGreatQuestion  BadgeID = "great_question"
	BadgeReviewer       BadgeID = "reviewer"
	BadgeCivicDuty      BadgeID = "civic_duty"
	BadgeExpert         BadgeID = "expert"
)

// Eligibility thresholds referenced by the badge predicates.
const (
	BadgeCuriousQuestionCount  = 5
	BadgePopularPostUpvotes    = 10
	BadgeValuableAnswerUpvotes = 10
	BadgeGreatQuestionUpvotes  = 25
	BadgeReviewerReviewCount   = 5
	BadgeCivicDutyFlagCount    = 10
	BadgeExpertReputation      = 1000
)

// badgeRegistry is the single source of badge definitions; evaluation order
// follows this slice so repeated runs award in a stable order.
var badgeRegistry = []Badge{
	{ID: BadgeWelcome, Name: "Welcome", Description: "Joined the community", Level: BadgeLevelBronze},
	{ID: BadgeFirstPost, Name: "First Post", Description: "Published a first question, answer, or review", Level: BadgeLevelBronze},
	{ID: BadgeFirstQuestion, Name: "First Question", Description: "Asked a first question", Level: BadgeLevelBronze},
	{ID: BadgeFirstAnswer, Name: "First Answer", Description: "Posted a first answer", Level: BadgeLevelBronze},
	{ID: BadgeCurious, Name: "Curious", Description: "Asked five questions", Level: BadgeLevelBronze},
	{ID: BadgeHelpful, Name: "Helpful", Description: "Had an answer accepted", Level: BadgeLevelSilver},
	{ID: BadgePopularPost, Name: "Popular Post", Description: "Question reached ten upvotes", Level: BadgeLevelSilver},
	{ID: BadgeValuableAnswer, Name: "Valuable Answer", Description: "Answer reached ten upvotes", Level: BadgeLevelSilver},
	{ID: BadgeReviewer, Name: "Reviewer", Description: "Published five tool reviews", Level: BadgeLevelSilver},
	{ID: BadgeCivicDuty, Name: "Civic Duty", Description: "Reported ten pieces of content", Level: BadgeLevelSilver},
	{ID: BadgeGreatQuestion, Name: "Great Question", Description: "Question reached twenty-five upvotes", Level: BadgeLevelGold},
	{ID: BadgeExpert, Name: "Expert", Description: "Reached 1000 reputation", Level: BadgeLevelGold},
}

func BadgeRegistry() []Badge {
	out := make([]Badge, len(badgeRegistry))
	copy(out, badgeRegistry)
	return out
}

func BadgeByID(id BadgeID) (Badge, bool) {
	for _, b := range badgeRegistry {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
