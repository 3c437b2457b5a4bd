package sla

import "github.com/spec-kit/complaint-hotline/internal/domain"

// Assurance scripts are read back verbatim to the caller after filing.
// Emergency scripts for life-threatening categories open with the safety
// instruction before anything else is promised.
var assuranceScripts = map[domain.Category]string{
	domain.CategoryGasLeak: "Please leave your flat immediately — do not touch any light switches " +
		"or electrical devices, and wait outside. This is a critical emergency: our emergency " +
		"response team has been alerted right now and will be at your property within one hour. " +
		"We will call you back within 15 minutes to confirm someone is on their way.",
	domain.CategoryFire: "Please evacuate the building now and call 999 if you haven't already. " +
		"I've flagged this as a life-safety emergency. Our emergency team is being dispatched and " +
		"will coordinate with the fire service. You will receive a call back within 15 minutes.",
	domain.CategoryFlood: "A burst pipe or flooding is a critical emergency. Our emergency plumber " +
		"has been paged and will arrive within two hours. If it's safe to do so, please turn off " +
		"the water stopcock — it's usually under the kitchen sink. Move valuables away from the " +
		"water if possible. We'll call you within 30 minutes to confirm the engineer's ETA.",
	domain.CategoryStructuralDamage: "Structural damage is being treated as an emergency. A " +
		"qualified surveyor will inspect your property within two hours. Please avoid the " +
		"affected area for your safety. We'll call you within 30 minutes with an update.",
	domain.CategoryNoHeatWinter: "No heating in winter is classified as urgent under housing law. " +
		"An emergency heating engineer has been assigned and will contact you within four hours. " +
		"If you have vulnerable individuals — children, elderly, or anyone with a medical " +
		"condition — please let me note that now so we can escalate the priority further.",
	domain.CategoryPowerOutage: "We've raised this as an urgent electrical fault. Our team will " +
		"assess within four hours. Please avoid using candles for safety. If the outage affects " +
		"the entire building, we're already contacting the utility provider. You'll receive a " +
		"text update within the hour.",
	domain.CategorySecurityBreach: "Your safety is the top priority. Our security team has been " +
		"alerted and will respond within two hours. If you feel you are in immediate danger, " +
		"please call 999 right now. We will also review CCTV footage and arrange a security " +
		"review of your entry points.",
	domain.CategoryMedicalEmergency: "Please call 999 immediately — this requires the ambulance " +
		"service directly. I'm logging this on your account so our property manager is made " +
		"aware and can provide any assistance needed. Please stay on the line with the " +
		"emergency services.",

	domain.CategoryPlumbing: "Your plumbing complaint has been logged and assigned to our " +
		"maintenance team. A qualified plumber will contact you within 24 hours to arrange a " +
		"convenient time to visit. You'll also receive a confirmation text shortly. If the issue " +
		"gets worse or causes flooding, please call us back immediately.",
	domain.CategoryElectrical: "Your electrical complaint has been raised with our maintenance " +
		"team and will be assessed within 24 hours. An electrician will contact you to arrange " +
		"access. In the meantime, please avoid using any faulty sockets or switches. If you " +
		"notice sparking or smell burning, please call us back straight away.",
	domain.CategoryHVAC: "Your heating or air conditioning issue has been logged. Our HVAC team " +
		"will be in touch within 24 hours to arrange a visit. If this becomes urgent — " +
		"particularly in cold weather — call back and we'll escalate it immediately.",
	domain.CategoryAppliance: "Your appliance fault has been recorded and passed to our " +
		"maintenance team. They will contact you within 48 hours to assess and repair or " +
		"replace it. If it's a landlord-provided appliance, all costs will be covered by us.",
	domain.CategoryPest: "A pest report has been raised and passed to our specialist pest " +
		"control team. They will contact you within 48 hours to arrange an inspection and " +
		"treatment. Please try not to disturb any nesting areas in the meantime.",
	domain.CategoryNoiseComplaint: "Your noise complaint has been formally logged. Our property " +
		"management team will investigate and contact the relevant party within 24 hours. If " +
		"the noise is causing serious distress tonight, you can also contact your local " +
		"council's noise service. We'll send you a written update within two working days.",
	domain.CategoryNeighbourDispute: "Your concern has been noted and will be reviewed by our " +
		"property manager. We take disputes seriously and aim to mediate fairly for all " +
		"residents. A member of the team will contact you within 48 hours to discuss next steps.",
	domain.CategoryParking: "Your parking complaint has been logged. Our facilities team will " +
		"review the situation within 48 hours. If there is a vehicle blocking emergency access, " +
		"please let me know now and we can escalate that as a priority.",
	domain.CategoryCommonArea: "Your report about the common area has been sent to our " +
		"facilities team, who aim to address communal issues within 48 hours. If it is a " +
		"safety hazard, please say so now and we'll treat it as a priority.",
	domain.CategoryLift: "The lift issue has been raised with our maintenance team as a " +
		"priority fault. An engineer will be assigned within 12 hours. If you have " +
		"accessibility needs and the lift is your only route of access, please tell me now and " +
		"we'll arrange a priority visit today.",
	domain.CategoryEntrySystem: "Your entry system or key issue has been logged. Our " +
		"maintenance team will respond within 12 hours. If you are currently locked out, " +
		"please stay on the line and I'll connect you with our out-of-hours locksmith service " +
		"right now.",
	domain.CategoryRubbish: "Your waste and rubbish complaint has been passed to our facilities " +
		"team and will be addressed within 72 hours. Thank you for flagging this — keeping " +
		"communal areas clean is important for everyone in the building.",
	domain.CategoryLeaking: "The non-urgent leak has been logged and our plumbing team will " +
		"contact you within 24 hours to arrange an inspection. If the leak worsens, please " +
		"call back immediately so we can upgrade the priority.",
	domain.CategoryDampMould: "Damp and mould is a health concern we take very seriously. Your " +
		"complaint has been logged and our maintenance team will carry out a full assessment " +
		"within 72 hours. We will recommend the appropriate treatment and ensure this is " +
		"resolved properly.",
	domain.CategoryOther: "Your complaint has been logged and a reference number has been " +
		"created. Our property management team will review it within 48 hours and contact you " +
		"with an update. If you feel this needs urgent attention, please let me know now.",
}
