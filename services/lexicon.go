package services

// Keyword lexicon for the rule-based sentiment scorer. The lists are
// immutable configuration loaded once at process start; nothing mutates
// them at runtime.
//
// Matching is substring containment, not exact token match (see
// AnalyzeSentiment). That catches stems like "interest"/"interested"
// but also produces known false positives: "unlike" and "disliked"
// both contain "like" and count as positive hits. This mirrors the
// shipped classifier behavior and must not be changed to exact-token
// matching without product sign-off.

var positiveWords = []string{
	"great", "excellent", "perfect", "amazing", "wonderful", "fantastic", "love", "like",
	"yes", "absolutely", "definitely", "interested", "excited", "helpful", "thank",
	"appreciate", "good", "nice", "awesome", "brilliant", "outstanding", "pleased",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "hate", "dislike", "no", "never", "disappointed",
	"frustrated", "angry", "upset", "problem", "issue", "complaint", "wrong",
	"horrible", "worst", "annoyed", "irritated", "concerned", "worried",
}

var neutralWords = []string{
	"okay", "fine", "maybe", "perhaps", "might", "could", "possibly", "think",
	"consider", "unsure", "neutral", "average", "normal", "standard",
}

// Question indicators signal engagement rather than polarity
var questionWords = []string{"what", "how", "when", "where", "why", "which", "who"}
