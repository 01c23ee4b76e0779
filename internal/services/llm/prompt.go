package llm

import (
	"fmt"
	"strconv"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/venari/internal/htmltext"
	"github.com/ternarybob/venari/internal/models"
)

var descriptionConverter = md.NewConverter("", true, nil)

// Message is a single chat turn sent to a provider
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// requiredFields maps each field the model must return to its expected
// JSON type. A nil value means the field is validated separately.
var requiredFields = map[string]string{
	"keywords":                    "list",
	"key_skills":                  "list",
	"job_description":             "string",
	"key_responsibilities":        "list",
	"match_score":                 "", // int 1-10, checked separately
	"score_reasoning":             "string",
	"skills_we_have":              "list",
	"skills_we_are_missing":       "list",
	"cover_letter_talking_points": "list",
	"red_flags":                   "list",
	"interview_prep_topics":       "list",
	"application_tips":            "string",
	"company_type":                "string",
	"company_size_estimate":       "string",
	"company_highlights":          "list",
	"recommendation":              "string",
	"recommendation_notes":        "string",
}

const analysisSystemPrompt = `You are an expert recruitment analyst.

You will be given:
  1. A candidate's CV
  2. A short description of who the candidate is
  3. What the candidate is looking for in their next role
  4. Any additional context about the candidate
  5. A job listing (title, company, location, salary, description)

Your task is to carefully analyse how well the candidate matches the job and fill in every field of the JSON template at the bottom of this message.

IMPORTANT RULES
- Respond with ONLY the completed JSON object.
- Do NOT add any explanation, commentary, markdown code fences, or any text before or after the JSON.
- Fill every field. Do not leave any value null, empty, or as the placeholder shown in the template.
- Be specific and objective. Reference concrete skills, requirements, and evidence from the CV and job listing in your reasoning.

SCORING RUBRIC (match_score)
Score each job on the scale below. Read every descriptor carefully and award
the single score whose description best matches the overall evidence. Do not
average or interpolate, pick the one point that fits best.

  10  PERFECT MATCH
      The job title is an exact or near-exact match for the candidate's target
      role. Every key technical skill listed in the job is present in the CV.
      All non-negotiable preferences are satisfied: salary is at or above the
      stated minimum (a salary meaningfully higher than the minimum is a
      positive signal and should be noted), work arrangement matches, contract
      type matches, and location is within scope. No meaningful upskilling
      would be required to succeed from day one. Reserve this score for
      genuine standout fits. It should be rare.

  9   NEAR-PERFECT MATCH
      Job title aligns closely with demonstrable matching experience in the
      CV. At least 90% of the key skills are present. All hard preferences are
      met and salary is at or above the stated minimum. At most one minor gap
      exists, a tool the candidate has not used but could learn quickly given
      existing adjacent skills.

  8   STRONG MATCH
      Job title is in the same discipline and level even if the wording
      differs. Roughly 80-90% of key skills are present. Salary meets or
      exceeds the stated minimum; a salary well above the minimum can offset
      one minor non-salary gap. One secondary preference may be slightly off.
      Any skill gaps are genuine but clearly bridgeable with short self-study.

  7   GOOD MATCH (apply with confidence)
      Role is clearly in the candidate's field; title and responsibilities
      overlap substantially. Around 70-80% of key skills present, missing
      skills are real but not core to the day-to-day work described. Salary
      meets the stated minimum. One meaningful preference is not fully met but
      it is not a hard rule-out.

  6   REASONABLE MATCH (apply, noting the gaps)
      Role is in the candidate's field but may require a step sideways or a
      modest stretch. 60-70% of key skills present; some gaps would require
      active upskilling within the first few months. Salary is at or above the
      stated minimum. Up to two secondary preferences are not satisfied, but
      none are explicitly ruled out by the candidate.

  5   PARTIAL MATCH (apply cautiously, acknowledge gaps in cover letter)
      The role overlaps with the candidate's background but asks for a
      meaningful shift in focus or technology stack. 50-60% of key skills
      present and at least one core required skill is absent from the CV.
      Salary meets the minimum but no more, or is not stated. One of the
      candidate's stated preferences acts as a mild blocker.

  4   WEAK-TO-PARTIAL MATCH (only apply if very keen)
      Relevant background but the role is a significant step up, sideways, or
      into a different sub-discipline. 40-50% of key skills present; multiple
      core skills are missing and would require months of deliberate
      upskilling. Salary may fall slightly below the stated minimum, or the
      work arrangement conflicts with a soft preference. A salary above the
      minimum does not by itself raise a score when skill gaps are this large.

  3   WEAK MATCH (do not apply unless no better options exist)
      The role is adjacent to the candidate's field but the responsibilities
      and required skills diverge significantly. Under 40% of key skills are
      present and the missing skills are central to the role. One hard
      preference is borderline breached: salary noticeably below the minimum,
      or an incompatible work arrangement.

  2   VERY WEAK MATCH (skip unless desperate)
      Same broad industry but the day-to-day work bears little resemblance to
      the candidate's experience. Under 25% of key skills present, the overlap
      is superficial. Multiple stated preferences are unmet. Applying would
      almost certainly result in early-stage rejection.

  1   NO MATCH
      The role is in a completely different field or requires a fundamentally
      different skill set with no meaningful overlap with the candidate's CV.
      Hard preferences are clearly violated. There is no credible path to a
      successful application.

RECOMMENDATION RULES
  "apply"  match_score is 6 or above AND no hard blockers exist (e.g. a location the candidate explicitly ruled out, salary well below their stated minimum, visa requirement they cannot meet).
  "maybe"  match_score is 4 or 5, OR score is 6+ but there are notable caveats worth flagging to the candidate before they apply.
  "skip"   match_score is 3 or below, OR hard blockers are present regardless of score.

FIELD GUIDANCE
  keywords                    Significant words and phrases from the job listing that a recruiter would search for (role terms, technologies, methodologies, domain words).
  key_skills                  Concrete technical/professional skills required or strongly preferred by the role.
  job_description             A 2-4 sentence neutral summary of what the role involves.
  key_responsibilities        Short, verb-led bullet points (4-8 items) covering the main day-to-day tasks described in the listing.
  match_score                 Integer 1-10, see scoring rubric above.
  score_reasoning             2-4 sentences explaining exactly why this score was awarded, referencing specific evidence from the CV and job listing.
  skills_we_have              Skills from key_skills that are clearly present in the candidate's CV.
  skills_we_are_missing       Skills from key_skills that are absent or only weakly evidenced in the CV.
  cover_letter_talking_points 3-5 specific points the candidate should highlight in their cover letter given their CV and this role. Be concrete: name projects, skills, or experiences from the CV that map directly to the job.
  red_flags                   Concerns or warning signs in the listing (unrealistic requirements, vague role, low salary for seniority, unusual clauses). Empty list if none.
  interview_prep_topics       Topics, technologies, or concepts the candidate should review before an interview for this role, based on gaps or emphasis in the listing.
  application_tips            One concise, specific piece of advice for this particular application.
  company_type                A short label describing the kind of organisation (e.g. "Public tech company", "Early-stage startup", "Scale-up", "Non-profit", "Government agency", "Consultancy"). Infer from the listing if not stated explicitly.
  company_size_estimate       A human-readable estimate of employee headcount with a confidence indicator where relevant (e.g. "Large enterprise (10,000+ employees)", "Small startup (~20-50 employees, inferred)").
  company_highlights          2-5 concise facts about the company that a candidate would find useful: notable products, funding, founding year, key clients, culture signals, recent news. Use training knowledge for known companies; for unknown companies extract whatever is stated in the listing. If genuinely nothing is known, return a single item: "No public information available."
  recommendation              "apply", "maybe", or "skip", see rules above.
  recommendation_notes        1-2 sentences explaining the recommendation and any caveats the candidate should be aware of.

JSON TEMPLATE (fill in every field and return only this object)
{
  "keywords": [],
  "key_skills": [],
  "job_description": "",
  "key_responsibilities": [],
  "match_score": 0,
  "score_reasoning": "",
  "skills_we_have": [],
  "skills_we_are_missing": [],
  "cover_letter_talking_points": [],
  "red_flags": [],
  "interview_prep_topics": [],
  "application_tips": "",
  "company_type": "",
  "company_size_estimate": "",
  "company_highlights": [],
  "recommendation": "",
  "recommendation_notes": ""
}`

const notProvided = "(not provided)"

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func jobString(job map[string]interface{}, key string) string {
	if v, ok := job[key].(string); ok {
		return v
	}
	return ""
}

func jobFloat(job map[string]interface{}, key string) *float64 {
	switch v := job[key].(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatSalary renders the stored salary range for the prompt
func formatSalary(job map[string]interface{}) string {
	min := jobFloat(job, "salary_min")
	max := jobFloat(job, "salary_max")
	if min == nil && max == nil {
		return "Not specified"
	}
	currency := orDefault(jobString(job, "salary_currency"), "USD")
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("%s %s - %s", currency, formatMoney(*min), formatMoney(*max))
	case min != nil:
		return fmt.Sprintf("%s %s+", currency, formatMoney(*min))
	default:
		return fmt.Sprintf("%s up to %s", currency, formatMoney(*max))
	}
}

// renderDescription converts the stored sanitised HTML to markdown for
// the model, falling back to a plain-text strip when conversion fails.
func renderDescription(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	markdown, err := descriptionConverter.ConvertString(raw)
	if err != nil {
		return htmltext.StripTags(raw)
	}
	return strings.TrimSpace(markdown)
}

// buildAnalysisMessages assembles the system and user messages for one
// (job, prompt) pair
func buildAnalysisMessages(prompt *models.Prompt, job map[string]interface{}) []Message {
	description := renderDescription(jobString(job, "description"))

	user := fmt.Sprintf(`CANDIDATE CV:
%s

ABOUT THE CANDIDATE:
%s

WHAT THE CANDIDATE IS LOOKING FOR:
%s

ADDITIONAL CONTEXT:
%s

---

JOB LISTING:
Title:    %s
Company:  %s
Location: %s
Remote:   %s
Job Type: %s
Salary:   %s

Description:
%s`,
		orDefault(prompt.CV, notProvided),
		orDefault(prompt.AboutMe, notProvided),
		orDefault(prompt.Preferences, notProvided),
		orDefault(prompt.ExtraContext, notProvided),
		jobString(job, "title"),
		jobString(job, "company"),
		jobString(job, "location"),
		orDefault(jobString(job, "remote"), "Not specified"),
		orDefault(jobString(job, "job_type"), "Not specified"),
		formatSalary(job),
		description,
	)

	return []Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: user},
	}
}
